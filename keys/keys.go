// Package keys derives deterministic storage identifiers for projected
// entities. Every key is computed purely from event fields so that replaying
// the same event stream always lands on the same rows.
package keys

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MaxKeyHexLen bounds the number of hex digits in a derived key, excluding the
// 0x prefix. Composite keys longer than this are truncated; callers must keep
// composite parts to fixed-width hex fragments so the bound is never reached
// by distinct logical tuples.
const MaxKeyHexLen = 128

// ZeroParent is the reserved address-shaped sentinel meaning "no parent".
// An idea whose parent equals this value is the root claim of its campaign.
const ZeroParent = "0x0000000000000000000000000000000000000000"

// IsZeroParent reports whether s is the sentinel parent value, tolerating
// prefix and case variance.
func IsZeroParent(s string) bool {
	return strings.EqualFold(strings.TrimPrefix(s, "0x"), strings.TrimPrefix(ZeroParent, "0x"))
}

// NormalizeHex strips an optional 0x prefix, lowercases, and left-pads with a
// single zero nibble when the digit count is odd. The same numeric value
// always normalizes to the same string regardless of leading-zero variance in
// the input.
func NormalizeHex(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "0x"))
	if len(s)%2 == 1 {
		s = "0" + s
	}
	if len(s) > MaxKeyHexLen {
		s = s[:MaxKeyHexLen]
	}
	return s
}

// generate turns normalized hex digits into a prefixed storage key, applying
// the length bound.
func generate(hexDigits string) string {
	if len(hexDigits) > MaxKeyHexLen {
		hexDigits = hexDigits[:MaxKeyHexLen]
	}
	return "0x" + hexDigits
}

// Campaign derives the storage key for a campaign from its business id.
// Injective over the u32 domain: the normalized hex of distinct u32 values is
// distinct and far below the truncation bound.
func Campaign(campaignID uint32) string {
	return generate(NormalizeHex(strconv.FormatUint(uint64(campaignID), 16)))
}

// Group derives the storage key for a specialist group from its business id.
func Group(groupID uint32) string {
	return generate(NormalizeHex(strconv.FormatUint(uint64(groupID), 16)))
}

// Event derives a per-event key from the transaction hash and log index,
// hashed so that two logs of one transaction never collide. Used for
// donations, withdrawals and campaign updates.
func Event(txHash common.Hash, logIndex uint) string {
	buf := make([]byte, 0, common.HashLength+4)
	buf = append(buf, txHash.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(logIndex))
	return generate(hex.EncodeToString(crypto.Keccak256(buf)))
}

// Idea derives the key for a newly created idea. The nonce disambiguates
// multiple idea creations within a single log entry, which (txHash, logIndex)
// alone cannot.
func Idea(txHash common.Hash, logIndex uint, nonce uint32) string {
	buf := make([]byte, 0, common.HashLength+8)
	buf = append(buf, txHash.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(logIndex))
	buf = binary.BigEndian.AppendUint32(buf, nonce)
	return generate(hex.EncodeToString(crypto.Keccak256(buf)))
}

// Composite concatenates normalized hex fragments into one key. Truncation
// past MaxKeyHexLen is lossy; parts must be fixed-width hex (addresses, ids,
// u32 hex) so distinct tuples stay distinct within the bound.
func Composite(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(NormalizeHex(p))
	}
	return generate(b.String())
}

// u32Hex renders a business id as exactly eight hex digits. Composite parts
// must be fixed width or adjacent fragments can shift into each other and
// distinct tuples collide.
func u32Hex(id uint32) string {
	return fmt.Sprintf("%08x", id)
}

// Follow derives the key for a follow edge: at most one per (campaign, user).
func Follow(campaignID uint32, user common.Address) string {
	return Composite(u32Hex(campaignID), user.Hex())
}

// Membership derives the key for a group membership: (group, member).
func Membership(groupID uint32, member common.Address) string {
	return Composite(u32Hex(groupID), member.Hex())
}

// Connection derives the key for a group-to-campaign association.
func Connection(groupID uint32, campaignID uint32) string {
	return Composite(u32Hex(groupID), u32Hex(campaignID))
}

// Rating derives the key for a truth rating: (group, rater, idea, group).
// The rated idea id is itself a derived key and participates as raw hex.
func Rating(groupID uint32, rater common.Address, ideaID string) string {
	group := u32Hex(groupID)
	return Composite(group, rater.Hex(), ideaID, group)
}
