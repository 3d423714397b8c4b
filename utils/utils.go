package utils

import (
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	_ "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	gnark_hash "github.com/consensys/gnark-crypto/hash"
)

func MiMCHasher() hash.Hash {
	return gnark_hash.MIMC_BN254.New()
}

// MiMCHash hashes the inputs in 32-byte blocks. Full blocks are reduced into
// the BN254 scalar field first, so arbitrary digests can be fed in.
func MiMCHash(ins ...[]byte) []byte {
	hasher := MiMCHasher()

	blockSize := hasher.Size()

	hasher.Reset()
	for _, in := range ins {

		for i := 0; i < len(in); i += blockSize {
			end := i + blockSize
			if end > len(in) {
				end = len(in)
			}
			chunk := in[i:end]

			if len(chunk) == blockSize {
				// this value may be greater than the modulus
				chunk = FieldReduce(chunk)
			}
			if _, err := hasher.Write(chunk); err != nil {
				panic(err)
			}
		}
	}
	return hasher.Sum(nil)
}

// FieldBytes returns the canonical 32-byte encoding of v as a field element.
func FieldBytes(v uint64) []byte {
	var elem fr.Element
	elem.SetUint64(v)
	bz := elem.Bytes()
	return bz[:]
}

// FieldReduce maps arbitrary bytes onto a canonical field element encoding.
func FieldReduce(bz []byte) []byte {
	var elem fr.Element
	elem.SetBytes(bz)
	out := elem.Bytes()
	return out[:]
}
