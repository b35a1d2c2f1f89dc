// Package steamid normalizes the textual account identifiers accepted by
// Steam into the canonical 64-bit SteamID form.
//
// Supported inputs:
//
//	76561197969338647                                  SteamID64
//	9072919                                            32-bit account id
//	STEAM_0:1:4536459                                  Steam2 text id
//	[U:1:9072919]                                      Steam3 text id
//	https://steamcommunity.com/profiles/76561197969338647
//
// Vanity names (custom profile URLs) cannot be resolved offline and are
// reported as ErrUnknownFormat.
package steamid

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	gosteam "github.com/Philipp15b/go-steam/v3/steamid"
)

// ErrUnknownFormat is returned when an identifier matches none of the
// supported formats.
var ErrUnknownFormat = errors.New("unknown ID format")

// Universe identifies the Steam universe an account lives in.
type Universe uint8

const (
	UniverseInvalid  Universe = 0
	UniversePublic   Universe = 1
	UniverseBeta     Universe = 2
	UniverseInternal Universe = 3
	UniverseDev      Universe = 4
)

// AccountType is the 4-bit account type field of a SteamID64.
type AccountType uint8

const (
	TypeInvalid    AccountType = 0
	TypeIndividual AccountType = 1
	TypeAnonUser   AccountType = 10
)

// DesktopInstance is the instance value used by individual accounts.
const DesktopInstance = 1

// IndividualBase is the SteamID64 of account 0 in the public universe.
const IndividualBase uint64 = 76561197960265728

// The library's own Steam2 matcher is unanchored, so inputs are shape-checked
// here before they are handed over.
var (
	steam2Pattern = regexp.MustCompile(`^STEAM_([0-5]):([0-1]):([0-9]+)$`)
	steam3Pattern = regexp.MustCompile(`^\[?U:([0-5]):([0-9]+)(?::([0-9]+))?\]?$`)
)

// ID is a canonical 64-bit Steam account identifier.
type ID uint64

func (id ID) steam() gosteam.SteamId { return gosteam.SteamId(id) }

// New assembles an ID from its components.
func New(universe Universe, accountType AccountType, instance uint32, accountID uint32) ID {
	return ID(gosteam.NewIdAdv(accountID, instance, int32(universe), int32(accountType)).ToUint64())
}

// Universe returns the universe field.
func (id ID) Universe() Universe { return Universe(id.steam().GetAccountUniverse()) }

// AccountType returns the account type field.
func (id ID) AccountType() AccountType { return AccountType(id.steam().GetAccountType()) }

// Instance returns the instance field.
func (id ID) Instance() uint32 { return id.steam().GetAccountInstance() }

// AccountID returns the 32-bit account number.
func (id ID) AccountID() uint32 { return id.steam().GetAccountId() }

// String returns the decimal SteamID64 representation.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Steam2 renders the legacy STEAM_X:Y:Z form. Public accounts are rendered
// with universe 0, matching what the Steam client displays.
func (id ID) Steam2() string {
	universe := id.Universe()
	if universe == UniversePublic {
		universe = UniverseInvalid
	}
	account := id.AccountID()
	return fmt.Sprintf("STEAM_%d:%d:%d", universe, account&1, account>>1)
}

// Steam3 renders the [U:1:N] form.
func (id ID) Steam3() string {
	return fmt.Sprintf("[U:%d:%d]", id.Universe(), id.AccountID())
}

// Valid reports whether the universe and account type fields hold values
// Steam actually issues.
func (id ID) Valid() bool {
	universe := id.Universe()
	if universe < UniversePublic || universe > UniverseDev {
		return false
	}
	accountType := id.AccountType()
	if accountType <= TypeInvalid || accountType > TypeAnonUser {
		return false
	}
	if accountType == TypeIndividual && id.AccountID() == 0 {
		return false
	}
	return true
}

// Normalize converts a loosely formatted identifier into an ID.
func Normalize(input string) (ID, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty identifier", ErrUnknownFormat)
	}

	if profile, ok := profileID(s); ok {
		s = profile
	}

	var (
		id  ID
		err error
	)
	upper := strings.ToUpper(s)
	switch {
	case isDigits(s):
		id, err = fromNumeric(s)
	case steam2Pattern.MatchString(upper):
		id, err = fromSteam2(upper)
	case steam3Pattern.MatchString(upper):
		id, err = fromSteam3(steam3Pattern.FindStringSubmatch(upper))
	default:
		err = errors.New("no matching format")
	}
	if err != nil || !id.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, input)
	}
	return id, nil
}

// fromNumeric treats values that fit in 32 bits as a bare account number and
// anything larger as a full SteamID64.
func fromNumeric(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v <= math.MaxUint32 {
		return New(UniversePublic, TypeIndividual, DesktopInstance, uint32(v)), nil
	}
	sid, err := gosteam.NewId(s)
	if err != nil {
		return 0, err
	}
	return ID(sid.ToUint64()), nil
}

func fromSteam2(s string) (ID, error) {
	m := steam2Pattern.FindStringSubmatch(s)
	if high, err := strconv.ParseUint(m[3], 10, 32); err != nil || high > math.MaxUint32>>1 {
		return 0, fmt.Errorf("account number out of range")
	}
	sid, err := gosteam.NewId(s)
	if err != nil {
		return 0, err
	}
	return ID(sid.ToUint64()), nil
}

func fromSteam3(m []string) (ID, error) {
	universe, _ := strconv.ParseUint(m[1], 10, 8)
	account, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return 0, err
	}
	instance := uint64(DesktopInstance)
	if m[3] != "" {
		if instance, err = strconv.ParseUint(m[3], 10, 20); err != nil {
			return 0, err
		}
	}
	return New(Universe(universe), TypeIndividual, uint32(instance), uint32(account)), nil
}

// profileID extracts the SteamID64 segment from a community profile URL.
func profileID(s string) (string, bool) {
	if !strings.Contains(s, "steamcommunity.com/profiles/") {
		return "", false
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "profiles" {
		return "", false
	}
	return segments[1], true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
