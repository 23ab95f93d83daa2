package backend

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/cosmos/evmmock/ante"
	evmante "github.com/cosmos/evmmock/ante/evm"
	"github.com/cosmos/evmmock/chain"
	"github.com/cosmos/evmmock/expectation"
	"github.com/cosmos/evmmock/registry"
	rpctypes "github.com/cosmos/evmmock/rpc/types"
	"github.com/cosmos/evmmock/types"

	errorsmod "cosmossdk.io/errors"
)

// Call answers eth_call from the expectations of the target contract. The
// matched expectation counts the call; the chain is left untouched.
func (b *Backend) Call(args rpctypes.CallArgs, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	if err := b.checkLatest(blockNrOrHash); err != nil {
		return nil, err
	}

	c, d, callCtx, err := b.prepareCall(args, true)
	if err != nil {
		return nil, err
	}

	e, err := c.Store.Match(d, callCtx, true)
	if err != nil {
		return nil, err
	}

	out, err := e.Evaluate(callCtx)
	if err != nil {
		return nil, err
	}

	switch out.Status {
	case expectation.StatusReverted:
		return nil, rpctypes.NewRevertError(out.RevertReason, out.RevertData)
	case expectation.StatusError:
		return nil, rpctypes.NewCallError(out.Message)
	}
	return out.Output, nil
}

// EstimateGas matches the request as a transaction without counting it. It
// answers the gas of the matched expectation, or the configured default. An
// expectation that reverts or fails makes the estimation fail the same way.
func (b *Backend) EstimateGas(args rpctypes.CallArgs, blockNrOrHash *rpc.BlockNumberOrHash) (hexutil.Uint64, error) {
	if err := b.checkLatest(blockNrOrHash); err != nil {
		return 0, err
	}

	c, d, callCtx, err := b.prepareCall(args, false)
	if err != nil {
		return 0, err
	}

	e, err := c.Store.Match(d, callCtx, false)
	if err != nil {
		return 0, err
	}

	switch e.ResponseKind() {
	case expectation.ResponseRevert, expectation.ResponseError:
		out, err := e.Evaluate(callCtx)
		if err != nil {
			return 0, err
		}
		if out.Status == expectation.StatusError {
			return 0, rpctypes.NewCallError(out.Message)
		}
		return 0, rpctypes.NewRevertError(out.RevertReason, out.RevertData)
	}

	if gas, ok := e.Gas(); ok {
		return hexutil.Uint64(gas), nil
	}
	return hexutil.Uint64(b.cfg.EstimateGas), nil
}

// SendRawTransaction verifies a signed legacy transaction, matches it and mines
// it together with the confirmation blocks of the matched expectation. An
// expectation answering with an error leaves the chain untouched.
func (b *Backend) SendRawTransaction(data hexutil.Bytes) (common.Hash, error) {
	tx, err := ante.VerifyRawTransaction(data, b.chain.ChainID())
	if err != nil {
		return common.Hash{}, err
	}

	if err := evmante.CheckNonce(b.chain, tx.From, tx.Nonce); err != nil {
		return common.Hash{}, err
	}

	c, err := b.contract(tx.To)
	if err != nil {
		return common.Hash{}, err
	}

	d, args, err := c.Registry.Decode(tx.Data)
	if err != nil {
		return common.Hash{}, err
	}

	value, err := toUint256("value", tx.Value)
	if err != nil {
		return common.Hash{}, err
	}
	gasPrice, err := toUint256("gas price", tx.GasPrice)
	if err != nil {
		return common.Hash{}, err
	}

	callCtx := &types.CallContext{
		IsViewCall: false,
		From:       tx.From,
		To:         tx.To,
		Nonce:      tx.Nonce,
		Gas:        tx.Gas,
		GasPrice:   gasPrice,
		Value:      value,
		Args:       args,
	}
	if err := checkPayable(d, callCtx); err != nil {
		return common.Hash{}, err
	}

	e, err := c.Store.Match(d, callCtx, true)
	if err != nil {
		return common.Hash{}, err
	}

	out, err := e.Evaluate(callCtx)
	if err != nil {
		return common.Hash{}, err
	}
	if out.Status == expectation.StatusError {
		return common.Hash{}, rpctypes.NewCallError(out.Message)
	}

	exec := chain.Execution{
		Reverted:      out.Status == expectation.StatusReverted,
		GasUsed:       tx.Gas,
		Confirmations: out.Confirmations,
	}
	if out.Gas != nil {
		exec.GasUsed = *out.Gas
	}
	for _, l := range out.Logs {
		exec.Logs = append(exec.Logs, chain.LogSpec{Topics: l.Topics, Data: l.Data})
	}

	receipt := b.chain.Mine(tx, exec)
	b.recorder.Transaction(exec.Reverted)
	b.recorder.BlocksMined(int(1 + exec.Confirmations))

	b.logger.Debug(
		"executed transaction",
		"hash", tx.Hash.Hex(), "method", d.Signature, "block", receipt.BlockNumber,
		"status", receipt.Status, "expectation", out.Expectation,
	)
	return tx.Hash, nil
}

func (b *Backend) contract(to common.Address) (*Contract, error) {
	c, ok := b.contracts[to]
	if !ok {
		return nil, errorsmod.Wrapf(types.ErrUnknownContract, "no contract is deployed at %s", to.Hex())
	}
	return c, nil
}

// prepareCall resolves the target and the method of a call request.
func (b *Backend) prepareCall(args rpctypes.CallArgs, isViewCall bool) (*Contract, *registry.Descriptor, *types.CallContext, error) {
	if args.To == nil {
		return nil, nil, nil, errorsmod.Wrap(types.ErrDeployNotSupported, "call request has no 'to' field")
	}

	c, err := b.contract(*args.To)
	if err != nil {
		return nil, nil, nil, err
	}

	d, decoded, err := c.Registry.Decode(args.CallData())
	if err != nil {
		return nil, nil, nil, err
	}

	value, err := toUint256("value", args.ValueBig())
	if err != nil {
		return nil, nil, nil, err
	}
	gasPrice, err := toUint256("gas price", args.GasPriceBig(b.chain.GasPriceBig()))
	if err != nil {
		return nil, nil, nil, err
	}

	from := args.FromAddress()
	nonce := b.chain.Nonce(from)
	if args.Nonce != nil {
		nonce = uint64(*args.Nonce)
	}

	callCtx := &types.CallContext{
		IsViewCall: isViewCall,
		From:       from,
		To:         c.Address,
		Nonce:      nonce,
		Gas:        args.GasLimit(b.cfg.CallGas),
		GasPrice:   gasPrice,
		Value:      value,
		Args:       decoded,
	}
	if err := checkPayable(d, callCtx); err != nil {
		return nil, nil, nil, err
	}

	return c, d, callCtx, nil
}

func checkPayable(d *registry.Descriptor, callCtx *types.CallContext) error {
	if callCtx.HasValue() && !d.Payable() {
		return errorsmod.Wrapf(types.ErrNotPayable, "%s received %s wei", d.Signature, callCtx.Value.Dec())
	}
	return nil
}

func toUint256(field string, v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, errorsmod.Wrapf(types.ErrInvalidParams, "negative %s %s", field, v)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errorsmod.Wrapf(types.ErrInvalidParams, "%s %s overflows 256 bits", field, v)
	}
	return u, nil
}
