package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

type verifier func(publicKey, message, signature string) error

var verifiers = map[string]verifier{
	"ed25519":    verifyEd25519,
	"secp256k1":  verifySecp256k1,
	"rsa-pss":    verifyRSA(true),
	"rsa-sha256": verifyRSA(false),
}

func SupportedAlg(alg string) bool {
	_, ok := verifiers[strings.ToLower(alg)]
	return ok
}

// VerifySignature checks signature over message with publicKey for the given
// algorithm.
func VerifySignature(alg, publicKey, message, signature string) error {
	v, ok := verifiers[strings.ToLower(alg)]
	if !ok {
		return fmt.Errorf("unsupported alg: %s", alg)
	}
	return v(publicKey, message, signature)
}

func verifyEd25519(publicKey, message, signature string) error {
	pub, err := decodeBase64OrHex(publicKey)
	if err != nil {
		return err
	}
	sig, err := decodeBase64OrHex(signature)
	if err != nil {
		return err
	}
	if len(pub) != ed25519.PublicKeySize {
		return errors.New("invalid ed25519 public key length")
	}
	if len(sig) != ed25519.SignatureSize {
		return errors.New("invalid ed25519 signature length")
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig) {
		return errors.New("invalid ed25519 signature")
	}
	return nil
}

// verifySecp256k1 accepts Ethereum personal_sign signatures: r||s over the
// keccak256 of the prefixed message.
func verifySecp256k1(publicKey, message, signature string) error {
	pubBytes, err := decodeHex(publicKey)
	if err != nil {
		return err
	}
	sig, err := decodeHex(signature)
	if err != nil {
		return err
	}
	pub, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return err
	}
	if len(sig) < 64 {
		return errors.New("invalid secp256k1 signature length")
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !ecdsa.Verify(pub.ToECDSA(), personalHash([]byte(message)), r, s) {
		return errors.New("invalid secp256k1 signature")
	}
	return nil
}

func verifyRSA(pss bool) verifier {
	return func(publicKey, message, signature string) error {
		pub, err := parseRSAPublicKey(publicKey)
		if err != nil {
			return err
		}
		sig, err := decodeBase64OrHex(signature)
		if err != nil {
			return err
		}
		h := sha256.Sum256([]byte(message))
		if pss {
			if err := rsa.VerifyPSS(pub, crypto.SHA256, h[:], sig, nil); err != nil {
				return errors.New("invalid rsa-pss signature")
			}
			return nil
		}
		if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, h[:], sig); err != nil {
			return errors.New("invalid rsa signature")
		}
		return nil
	}
}

// parseRSAPublicKey reads PEM (PKIX or PKCS#1) or bare base64/hex DER.
func parseRSAPublicKey(input string) (*rsa.PublicKey, error) {
	input = strings.TrimSpace(input)
	var der []byte
	if strings.HasPrefix(input, "-----BEGIN") {
		block, _ := pem.Decode([]byte(input))
		if block == nil {
			return nil, errors.New("invalid pem public key")
		}
		der = block.Bytes
	} else {
		b, err := decodeBase64OrHex(input)
		if err != nil {
			return nil, err
		}
		der = b
	}
	if parsed, err := x509.ParsePKIXPublicKey(der); err == nil {
		if pk, ok := parsed.(*rsa.PublicKey); ok {
			return pk, nil
		}
	}
	pk, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, errors.New("unsupported rsa public key")
	}
	return pk, nil
}

func decodeBase64OrHex(input string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(input); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(input); err == nil {
		return b, nil
	}
	return decodeHex(input)
}

func decodeHex(input string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(input), "0x"))
}

func personalHash(msg []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	fmt.Fprintf(h, "\x19Ethereum Signed Message:\n%d", len(msg))
	h.Write(msg)
	return h.Sum(nil)
}
