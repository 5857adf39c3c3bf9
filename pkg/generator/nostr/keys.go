// Package nostr provides Nostr vanity npub generation support:
// secp256k1 key pairs, bech32 npub/nsec encoding and pattern matching.
package nostr

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

// Human-readable parts of the NIP-19 key encodings.
const (
	PublicHRP = "npub"
	SecretHRP = "nsec"

	// KeyLen is the length of both the x-only public key and the secret key.
	KeyLen = 32
)

// IdentifierPrefixLen is the length of the fixed "npub1" tag that patterns never include.
const IdentifierPrefixLen = len(PublicHRP) + 1

// ErrInvalidKeyLength is returned by Encode when the payload is not a 32-byte key.
var ErrInvalidKeyLength = errors.New("invalid key length")

// GenerateKeyPair generates a new random secp256k1 key pair.
// It returns the 32-byte x-only public key and the 32-byte secret key.
// Every call draws fresh randomness from crypto/rand.
func GenerateKeyPair() (pub, sec []byte, err error) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, errors.Wrap(err, "generate secp256k1 key")
	}
	return schnorr.SerializePubKey(privKey.PubKey()), privKey.Serialize(), nil
}

// Encode converts a 32-byte key into its bech32 form under the given
// human-readable part.
func Encode(hrp string, key []byte) (string, error) {
	if len(key) != KeyLen {
		return "", errors.Wrapf(ErrInvalidKeyLength, "%s: got %d bytes, want %d", hrp, len(key), KeyLen)
	}

	// Convert to 5-bit groups for bech32
	data, err := bech32.ConvertBits(key, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}

	return bech32.Encode(hrp, data)
}

// Decode is the inverse of Encode. It checks the human-readable part and
// returns the 32-byte key.
func Decode(hrp, s string) ([]byte, error) {
	gotHRP, data, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode bech32")
	}
	if gotHRP != hrp {
		return nil, errors.Errorf("unexpected prefix %q, want %q", gotHRP, hrp)
	}

	key, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrap(err, "convert bits")
	}
	if len(key) != KeyLen {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "%s: got %d bytes, want %d", hrp, len(key), KeyLen)
	}
	return key, nil
}

// KeySource is the CandidateSource backed by secp256k1 and bech32.
type KeySource struct{}

// NewKeySource returns a CandidateSource producing Nostr key pairs.
func NewKeySource() *KeySource {
	return &KeySource{}
}

// Generate creates a key pair and encodes both halves.
func (KeySource) Generate() (generator.Candidate, error) {
	pub, sec, err := GenerateKeyPair()
	if err != nil {
		return generator.Candidate{}, err
	}
	return NewCandidate(pub, sec)
}

// NewCandidate encodes raw key bytes into a Candidate.
func NewCandidate(pub, sec []byte) (generator.Candidate, error) {
	npub, err := Encode(PublicHRP, pub)
	if err != nil {
		return generator.Candidate{}, err
	}
	nsec, err := Encode(SecretHRP, sec)
	if err != nil {
		return generator.Candidate{}, err
	}

	return generator.Candidate{
		PublicID:  npub,
		SecretID:  nsec,
		PublicHex: hex.EncodeToString(pub),
	}, nil
}

// Verify decodes the candidate's npub and checks it against the public hex.
func Verify(c *generator.Candidate) error {
	pub, err := Decode(PublicHRP, c.PublicID)
	if err != nil {
		return err
	}
	if hex.EncodeToString(pub) != c.PublicHex {
		return errors.New("npub does not encode the public key")
	}
	return nil
}
