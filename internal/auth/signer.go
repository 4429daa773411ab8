// Package auth implements request signing for the ledger API.
//
// Every request is authenticated individually: there is no session or token
// exchange. The signer builds a canonical string from the request (method,
// path, timestamp, body), hashes it with SHA-256 and signs the digest with
// the credential's secp256k1 private key. The DER-encoded signature travels
// in a header alongside the access ID and the timestamp, so no secret
// material ever leaves the process.
package auth

import (
	"crypto/sha256"
	"encoding/asn1"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// Request headers attached by the signer.
const (
	HeaderAccessID  = "Access-Id"
	HeaderTime      = "Access-Time"
	HeaderSignature = "Access-Signature"
)

// Static errors for err113 compliance.
var (
	ErrInvalidPEM      = errors.New("private key is not valid PEM")
	ErrWrongPEMType    = errors.New("expected an EC PRIVATE KEY PEM block")
	ErrInvalidKeyBytes = errors.New("private key scalar has invalid length")
)

const privateKeyScalarLen = 32

// ecPrivateKey is the SEC 1 ASN.1 structure for an EC private key.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// oidSecp256k1 identifies the secp256k1 named curve.
var oidSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}

// ParsePrivateKey parses a SEC 1 "EC PRIVATE KEY" PEM block on secp256k1.
func ParsePrivateKey(pemKey string) (*btcec.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(pemKey)))
	if block == nil {
		return nil, ErrInvalidPEM
	}

	if block.Type != "EC PRIVATE KEY" {
		return nil, fmt.Errorf("%w, got %q", ErrWrongPEMType, block.Type)
	}

	var key ecPrivateKey

	_, err := asn1.Unmarshal(block.Bytes, &key)
	if err != nil {
		return nil, fmt.Errorf("parsing EC private key: %w", err)
	}

	if len(key.PrivateKey) == 0 || len(key.PrivateKey) > privateKeyScalarLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKeyBytes, len(key.PrivateKey))
	}

	// Left-pad short scalars to the full 32 bytes.
	scalar := make([]byte, privateKeyScalarLen)
	copy(scalar[privateKeyScalarLen-len(key.PrivateKey):], key.PrivateKey)

	priv, _ := btcec.PrivKeyFromBytes(scalar)

	return priv, nil
}

// MarshalPrivateKey serializes a secp256k1 private key to SEC 1 PEM.
func MarshalPrivateKey(priv *btcec.PrivateKey) (string, error) {
	der, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    priv.Serialize(),
		NamedCurveOID: oidSecp256k1,
		PublicKey:     asn1.BitString{Bytes: priv.PubKey().SerializeUncompressed()},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling EC private key: %w", err)
	}

	block := &pem.Block{Type: "EC PRIVATE KEY", Bytes: der}

	return string(pem.EncodeToMemory(block)), nil
}

// GeneratePrivateKeyPEM creates a fresh secp256k1 key pair and returns the
// private key as SEC 1 PEM. Used for onboarding and tests.
func GeneratePrivateKeyPEM() (string, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return "", fmt.Errorf("generating private key: %w", err)
	}

	return MarshalPrivateKey(priv)
}

// CanonicalString builds the deterministic signable representation of a
// request: method, path (including raw query), timestamp and body joined by
// newlines, in that order.
func CanonicalString(method, path, accessTime string, body []byte) string {
	return method + "\n" + path + "\n" + accessTime + "\n" + string(body)
}

// Signer produces signature headers for outgoing requests. It is a pure
// function of its inputs plus the key; safe for concurrent use.
type Signer struct {
	accessID string
	key      *btcec.PrivateKey
}

// NewSigner parses the PEM key and returns a ready signer. A malformed key
// fails here, before any request is built.
func NewSigner(accessID, privateKeyPEM string) (*Signer, error) {
	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	return &Signer{accessID: accessID, key: key}, nil
}

// PublicKey returns the signer's public key, used for verification in tests.
func (s *Signer) PublicKey() *btcec.PublicKey {
	return s.key.PubKey()
}

// SignRequest returns the authentication headers for a request issued at the
// given time. The signature is deterministic (RFC 6979) for a fixed input.
func (s *Signer) SignRequest(method, path string, body []byte, at time.Time) map[string]string {
	accessTime := strconv.FormatInt(at.Unix(), 10)
	message := CanonicalString(method, path, accessTime, body)
	digest := sha256.Sum256([]byte(message))
	signature := btcecdsa.Sign(s.key, digest[:])

	return map[string]string{
		HeaderAccessID:  s.accessID,
		HeaderTime:      accessTime,
		HeaderSignature: base64.StdEncoding.EncodeToString(signature.Serialize()),
	}
}

// VerifySignature checks a base64 DER signature over the canonical string.
func VerifySignature(pub *btcec.PublicKey, message string, signatureB64 string) bool {
	raw, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}

	signature, err := btcecdsa.ParseDERSignature(raw)
	if err != nil {
		return false
	}

	digest := sha256.Sum256([]byte(message))

	return signature.Verify(digest[:], pub)
}
