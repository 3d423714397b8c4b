package main

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/kysee/lemonzk/zk-score/types"
)

// Calldata is the argument list of the exported verifier's verifyProof.
type Calldata struct {
	Proof        []string `json:"proof"`
	PublicInputs []string `json:"publicInputs"`
}

func exportVerifier(vk groth16.VerifyingKey, path string) error {
	var buf bytes.Buffer
	if err := vk.ExportSolidity(&buf); err != nil {
		return fmt.Errorf("export solidity: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// solidityCalldata splits the proof into 32-byte big-endian words and lists the
// public inputs as decimal field elements.
func solidityCalldata(pd *types.ProofData) (*Calldata, error) {
	proof, err := pd.ReadProof()
	if err != nil {
		return nil, err
	}
	bn254Proof, ok := proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("unexpected proof type %T", proof)
	}
	raw := bn254Proof.MarshalSolidity()
	if len(raw)%32 != 0 {
		return nil, fmt.Errorf("proof encoding is %d bytes", len(raw))
	}

	signals, err := pd.Signals()
	if err != nil {
		return nil, err
	}

	cd := &Calldata{}
	for i := 0; i < len(raw); i += 32 {
		cd.Proof = append(cd.Proof, new(big.Int).SetBytes(raw[i:i+32]).String())
	}
	for _, w := range signals.Words() {
		cd.PublicInputs = append(cd.PublicInputs, w.Dec())
	}
	return cd, nil
}
