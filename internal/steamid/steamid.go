// Package steamid validates and canonicalizes Steam account identifiers.
//
// Steam accounts have three interchangeable textual renderings: the 64-bit
// decimal form ("76561198034336239"), the legacy textual form
// ("STEAM_0:1:37035255") and the modern bracket form ("[U:1:74070511]").
// Parse accepts all three and canonicalizes to the 64-bit form so downstream
// cache keys and API calls always operate on one representation.
package steamid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	dErrors "steamgate/pkg/domain-errors"
)

// SteamID is the canonical 64-bit account identifier.
type SteamID uint64

// Bit layout of a SteamID64: universe (8) | account type (4) | instance (20) |
// account number (32). Individual public desktop accounts carry universe 1,
// type 1, instance 1, which yields the familiar 7656119... prefix.
const (
	universePublic   = 1
	typeIndividual   = 1
	instanceDesktop  = 1
	individualBase   = uint64(universePublic)<<56 | uint64(typeIndividual)<<52 | uint64(instanceDesktop)<<32
	accountIDMask    = uint64(1)<<32 - 1
	instanceMask     = uint64(1)<<20 - 1
	accountTypeShift = 52
	universeShift    = 56
	instanceShift    = 32
)

var (
	legacyForm  = regexp.MustCompile(`^STEAM_([0-5]):([01]):(\d+)$`)
	bracketForm = regexp.MustCompile(`^\[U:1:(\d+)\]$`)
)

// Parse canonicalizes a raw identifier string into a SteamID.
// It fails with an invalid-input domain error for anything that is not a
// well-formed individual account identifier; it performs no I/O, so it is
// safe to call before any cache or network access.
func Parse(raw string) (SteamID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "user identifier is required")
	}

	if m := legacyForm.FindStringSubmatch(raw); m != nil {
		y, _ := strconv.ParseUint(m[2], 10, 1)
		z, err := strconv.ParseUint(m[3], 10, 31)
		if err != nil {
			return 0, dErrors.New(dErrors.CodeInvalidInput, "account number out of range")
		}
		return fromAccountID(z*2 + y)
	}

	if m := bracketForm.FindStringSubmatch(raw); m != nil {
		n, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return 0, dErrors.New(dErrors.CodeInvalidInput, "account number out of range")
		}
		return fromAccountID(n)
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "unrecognized identifier format")
	}
	id := SteamID(n)
	if err := id.validate(); err != nil {
		return 0, err
	}
	return id, nil
}

func fromAccountID(accountID uint64) (SteamID, error) {
	if accountID == 0 || accountID > accountIDMask {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "account number out of range")
	}
	return SteamID(individualBase | accountID), nil
}

// validate checks the structural bits of a 64-bit identifier. Only public
// individual desktop accounts are accepted: group, clan and chat identifiers
// are well-formed SteamID64 values but can never be authorized here.
func (s SteamID) validate() error {
	v := uint64(s)
	if v>>universeShift != universePublic {
		return dErrors.New(dErrors.CodeInvalidInput, "identifier is not in the public universe")
	}
	if (v>>accountTypeShift)&0xF != typeIndividual {
		return dErrors.New(dErrors.CodeInvalidInput, "identifier is not an individual account")
	}
	if (v>>instanceShift)&instanceMask != instanceDesktop {
		return dErrors.New(dErrors.CodeInvalidInput, "identifier has an invalid instance")
	}
	if v&accountIDMask == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "identifier has a zero account number")
	}
	return nil
}

// AccountID returns the low 32-bit account number.
func (s SteamID) AccountID() uint32 {
	return uint32(uint64(s) & accountIDMask)
}

// String renders the canonical 64-bit decimal form.
func (s SteamID) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// Legacy renders the STEAM_1:Y:Z textual form, used in notification payloads
// where operators expect the historical rendering.
func (s SteamID) Legacy() string {
	acct := uint64(s) & accountIDMask
	return fmt.Sprintf("STEAM_1:%d:%d", acct&1, acct/2)
}
