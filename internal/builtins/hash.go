package builtins

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"math/big"

	"dsq/internal/value"
)

// base58Alphabet is the Bitcoin/IPFS base58 alphabet. No pack example
// imports a base58 library, so this is a stdlib math/big implementation
// rather than an ungrounded third-party dependency (see DESIGN.md).
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func base58Encode(data []byte) string {
	zero := big.NewInt(0)
	radix := big.NewInt(58)
	n := new(big.Int).SetBytes(data)
	var out []byte
	mod := new(big.Int)
	for n.Cmp(zero) > 0 {
		n.DivMod(n, radix, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}
	for _, b := range data {
		if b != 0 {
			break
		}
		out = append(out, base58Alphabet[0])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func base58Decode(s string) ([]byte, error) {
	n := big.NewInt(0)
	radix := big.NewInt(58)
	for _, c := range s {
		idx := -1
		for i, a := range base58Alphabet {
			if a == c {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, fmt.Errorf("base58_decode: invalid character %q", c)
		}
		n.Mul(n, radix)
		n.Add(n, big.NewInt(int64(idx)))
	}
	decoded := n.Bytes()
	leadingZeros := 0
	for _, c := range s {
		if c != rune(base58Alphabet[0]) {
			break
		}
		leadingZeros++
	}
	return append(make([]byte, leadingZeros), decoded...), nil
}

func registerHashFns() {
	registerFn("md5", 1, func(args []value.Value) (value.Value, error) {
		sum := md5.Sum([]byte(args[0].AsString()))
		return value.String(fmt.Sprintf("%x", sum)), nil
	})
	registerFn("sha1", 1, func(args []value.Value) (value.Value, error) {
		sum := sha1.Sum([]byte(args[0].AsString()))
		return value.String(fmt.Sprintf("%x", sum)), nil
	})
	registerFn("sha256", 1, func(args []value.Value) (value.Value, error) {
		sum := sha256.Sum256([]byte(args[0].AsString()))
		return value.String(fmt.Sprintf("%x", sum)), nil
	})
	registerFn("sha512", 1, func(args []value.Value) (value.Value, error) {
		sum := sha512.Sum512([]byte(args[0].AsString()))
		return value.String(fmt.Sprintf("%x", sum)), nil
	})
	registerFn("base32_encode", 1, func(args []value.Value) (value.Value, error) {
		return value.String(base32.StdEncoding.EncodeToString([]byte(args[0].AsString()))), nil
	})
	registerFn("base32_decode", 1, func(args []value.Value) (value.Value, error) {
		out, err := base32.StdEncoding.DecodeString(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		return value.String(string(out)), nil
	})
	registerFn("base58_encode", 1, func(args []value.Value) (value.Value, error) {
		return value.String(base58Encode([]byte(args[0].AsString()))), nil
	})
	registerFn("base58_decode", 1, func(args []value.Value) (value.Value, error) {
		out, err := base58Decode(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		return value.String(string(out)), nil
	})
	registerFn("base64_encode", 1, func(args []value.Value) (value.Value, error) {
		return value.String(base64.StdEncoding.EncodeToString([]byte(args[0].AsString()))), nil
	})
	registerFn("base64_decode", 1, func(args []value.Value) (value.Value, error) {
		out, err := base64.StdEncoding.DecodeString(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		return value.String(string(out)), nil
	})
}
