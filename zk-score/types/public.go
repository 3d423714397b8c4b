package types

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

const NumPublicSignals = 5

var (
	ErrPublicSignals = errors.New("malformed public signals")
	fieldModulus     = uint256.MustFromBig(fr.Modulus())
)

// PublicSignals are the circuit's public inputs in declaration order.
type PublicSignals struct {
	StartingMoney     uint64
	FinalScore        uint64
	DaysPlayed        uint64
	PlayerKey         []byte
	HistoryCommitment []byte
}

func (ps PublicSignals) Words() []*uint256.Int {
	return []*uint256.Int{
		uint256.NewInt(ps.StartingMoney),
		uint256.NewInt(ps.FinalScore),
		uint256.NewInt(ps.DaysPlayed),
		new(uint256.Int).SetBytes(ps.PlayerKey),
		new(uint256.Int).SetBytes(ps.HistoryCommitment),
	}
}

// Encode renders each signal as a 0x-prefixed 32-byte little-endian hex word,
// the layout the zkVerify groth16 pallet expects.
func (ps PublicSignals) Encode() []string {
	words := ps.Words()
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = encodeWord(w)
	}
	return out
}

func DecodePublicSignals(words []string) (PublicSignals, error) {
	if len(words) != NumPublicSignals {
		return PublicSignals{}, fmt.Errorf("%w: want %d words, got %d", ErrPublicSignals, NumPublicSignals, len(words))
	}
	vals := make([]*uint256.Int, len(words))
	for i, s := range words {
		v, err := decodeWord(s)
		if err != nil {
			return PublicSignals{}, fmt.Errorf("%w: word %d: %v", ErrPublicSignals, i, err)
		}
		vals[i] = v
	}
	for i := 0; i < 3; i++ {
		if !vals[i].IsUint64() {
			return PublicSignals{}, fmt.Errorf("%w: word %d overflows", ErrPublicSignals, i)
		}
	}
	key, commit := vals[3].Bytes32(), vals[4].Bytes32()
	return PublicSignals{
		StartingMoney:     vals[0].Uint64(),
		FinalScore:        vals[1].Uint64(),
		DaysPlayed:        vals[2].Uint64(),
		PlayerKey:         key[:],
		HistoryCommitment: commit[:],
	}, nil
}

func encodeWord(v *uint256.Int) string {
	bz := v.Bytes32()
	reverse(bz[:])
	return hexutil.Encode(bz[:])
}

func decodeWord(s string) (*uint256.Int, error) {
	bz, err := hexutil.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(bz) != 32 {
		return nil, fmt.Errorf("want 32 bytes, got %d", len(bz))
	}
	reverse(bz)
	v := new(uint256.Int).SetBytes32(bz)
	if !v.Lt(fieldModulus) {
		return nil, errors.New("not a field element")
	}
	return v, nil
}

func reverse(bz []byte) {
	for i, j := 0, len(bz)-1; i < j; i, j = i+1, j-1 {
		bz[i], bz[j] = bz[j], bz[i]
	}
}

// ProofData is the payload handed to the verification layer.
type ProofData struct {
	Proof        string   `json:"proof"`
	PublicInputs []string `json:"publicInputs"`
}

func NewProofData(proof groth16.Proof, signals PublicSignals) (*ProofData, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, err
	}
	return &ProofData{
		Proof:        hexutil.Encode(buf.Bytes()),
		PublicInputs: signals.Encode(),
	}, nil
}

func (pd *ProofData) ReadProof() (groth16.Proof, error) {
	bz, err := hexutil.Decode(pd.Proof)
	if err != nil {
		return nil, fmt.Errorf("decode proof: %w", err)
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(bz)); err != nil {
		return nil, fmt.Errorf("read proof: %w", err)
	}
	return proof, nil
}

func (pd *ProofData) Signals() (PublicSignals, error) {
	return DecodePublicSignals(pd.PublicInputs)
}

// Statement identifies a (verification key, public inputs) pair. Proofs that
// share a statement are duplicates.
func Statement(vkHash []byte, signals PublicSignals) []byte {
	parts := [][]byte{vkHash}
	for _, w := range signals.Words() {
		bz := w.Bytes32()
		parts = append(parts, bz[:])
	}
	return crypto.Keccak256(parts...)
}

func VerificationKeyHash(vk groth16.VerifyingKey) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return nil, err
	}
	return crypto.Keccak256(buf.Bytes()), nil
}
