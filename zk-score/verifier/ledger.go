package verifier

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/accumulator/merkletree"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kysee/lemonzk/utils"
	"github.com/kysee/lemonzk/zk-score/types"
	"github.com/rs/zerolog"
)

var (
	ErrNoVerificationKey  = errors.New("no verification key registered")
	ErrDuplicateStatement = errors.New("statement already verified")
	ErrUnknownStatement   = errors.New("unknown statement")
	ErrInvalidProof       = errors.New("invalid proof")
)

// Receipt is what the ledger hands back for an accepted proof.
type Receipt struct {
	Statement       []byte
	TxHash          string
	Block           uint64
	LeafIndex       uint64
	AggregationRoot []byte
	URL             string
	Signals         types.PublicSignals
}

// InclusionPath proves that a statement is a leaf of the aggregation tree.
type InclusionPath struct {
	Root      []byte
	Proof     [][]byte
	Index     uint64
	NumLeaves uint64
}

// Ledger verifies score proofs and aggregates accepted statements into a
// MiMC merkle tree, the way the zkVerify chain does for its attestations.
type Ledger struct {
	mtx sync.RWMutex

	explorerURL string
	log         zerolog.Logger

	vk     groth16.VerifyingKey
	vkHash []byte

	tree     *merkletree.Tree
	leaves   [][]byte
	receipts map[string]*Receipt
	block    uint64
}

func NewLedger(explorerURL string, logger zerolog.Logger) *Ledger {
	return &Ledger{
		explorerURL: explorerURL,
		log:         logger.With().Str("module", "ledger").Logger(),
		tree:        merkletree.New(utils.MiMCHasher()),
		receipts:    make(map[string]*Receipt),
	}
}

// RegisterVerificationKey sets the key proofs are checked against and returns
// its hash.
func (l *Ledger) RegisterVerificationKey(vk groth16.VerifyingKey) ([]byte, error) {
	h, err := types.VerificationKeyHash(vk)
	if err != nil {
		return nil, err
	}

	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.vk, l.vkHash = vk, h
	l.log.Info().Str("vkHash", hexutil.Encode(h)).Msg("verification key registered")
	return append([]byte(nil), h...), nil
}

func (l *Ledger) Submit(ctx context.Context, pd *types.ProofData) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signals, err := pd.Signals()
	if err != nil {
		return nil, err
	}
	proof, err := pd.ReadProof()
	if err != nil {
		return nil, err
	}
	pubWtn, err := frontend.NewWitness(types.PublicAssignment(signals), ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, err
	}

	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.vk == nil {
		return nil, ErrNoVerificationKey
	}
	statement := types.Statement(l.vkHash, signals)
	if _, ok := l.receipts[string(statement)]; ok {
		return nil, ErrDuplicateStatement
	}

	if err := groth16.Verify(proof, l.vk, pubWtn); err != nil {
		l.log.Warn().Err(err).Uint64("score", signals.FinalScore).Msg("proof rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	leaf := utils.FieldReduce(statement)
	l.tree.Push(leaf)
	l.leaves = append(l.leaves, leaf)
	l.block++

	var bn [8]byte
	binary.BigEndian.PutUint64(bn[:], l.block)
	txHash := hexutil.Encode(crypto.Keccak256(statement, bn[:]))

	r := &Receipt{
		Statement:       statement,
		TxHash:          txHash,
		Block:           l.block,
		LeafIndex:       uint64(len(l.leaves) - 1),
		AggregationRoot: l.tree.Root(),
		URL:             l.explorerURL + txHash,
		Signals:         signals,
	}
	l.receipts[string(statement)] = r

	l.log.Info().
		Str("tx", txHash).
		Uint64("block", r.Block).
		Uint64("score", signals.FinalScore).
		Msg("proof verified")
	return r, nil
}

func (l *Ledger) Receipt(statement []byte) (*Receipt, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	r, ok := l.receipts[string(statement)]
	if !ok {
		return nil, ErrUnknownStatement
	}
	cp := *r
	return &cp, nil
}

// StatementPath builds the inclusion path of statement against the current
// aggregation root.
func (l *Ledger) StatementPath(statement []byte) (*InclusionPath, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	r, ok := l.receipts[string(statement)]
	if !ok {
		return nil, ErrUnknownStatement
	}

	var buf bytes.Buffer
	for _, leaf := range l.leaves {
		buf.Write(leaf)
	}
	hasher := utils.MiMCHasher()
	root, proof, numLeaves, err := merkletree.BuildReaderProof(&buf, hasher, hasher.Size(), r.LeafIndex)
	if err != nil {
		return nil, err
	}
	return &InclusionPath{
		Root:      root,
		Proof:     proof,
		Index:     r.LeafIndex,
		NumLeaves: numLeaves,
	}, nil
}

func VerifyStatementPath(statement []byte, path *InclusionPath) bool {
	if path == nil || len(path.Proof) == 0 {
		return false
	}
	if !bytes.Equal(path.Proof[0], utils.FieldReduce(statement)) {
		return false
	}
	return merkletree.VerifyProof(utils.MiMCHasher(), path.Root, path.Proof, path.Index, path.NumLeaves)
}
