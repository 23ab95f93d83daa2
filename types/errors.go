package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace every mock node error is registered under.
const ModuleName = "evmmock"

// errors
var (
	// ErrConfiguration is raised when a test configures the mock in a way that can never be satisfied.
	ErrConfiguration = errorsmod.Register(ModuleName, 2, "invalid mock configuration")
	// ErrInvalidTransaction is returned when raw transaction bytes are not a well-formed legacy transaction.
	ErrInvalidTransaction = errorsmod.Register(ModuleName, 3, "invalid transaction data")
	// ErrInvalidSignature is returned when the sender can't be recovered from the signature.
	ErrInvalidSignature = errorsmod.Register(ModuleName, 4, "invalid transaction signature")
	// ErrChainIDMismatch is returned when a transaction is signed for a different chain.
	ErrChainIDMismatch = errorsmod.Register(ModuleName, 5, "chain id mismatch")
	// ErrDeployNotSupported is returned for contract creation transactions.
	ErrDeployNotSupported = errorsmod.Register(ModuleName, 6, "mock node does not support deploying contracts via transactions, use Deploy instead")
	// ErrDecoding is returned when call data can't be decoded against the contract interface.
	ErrDecoding = errorsmod.Register(ModuleName, 7, "can't decode call data")
	// ErrNoExpectation is returned when no expectation accepts a call.
	ErrNoExpectation = errorsmod.Register(ModuleName, 8, "no expectation matches")
	// ErrUnknownMethod is returned for JSON-RPC methods the mock does not serve.
	ErrUnknownMethod = errorsmod.Register(ModuleName, 9, "unsupported rpc method")
	// ErrUnknownReceipt is returned when a receipt is requested for a hash the node never mined.
	ErrUnknownReceipt = errorsmod.Register(ModuleName, 10, "unknown transaction")
	// ErrSigningNotSupported is returned for eth_sendTransaction.
	ErrSigningNotSupported = errorsmod.Register(ModuleName, 11, "mock node can't sign transactions")
	// ErrInvalidParams is returned when JSON-RPC params can't be parsed.
	ErrInvalidParams = errorsmod.Register(ModuleName, 12, "invalid params")
	// ErrUnsupportedBlock is returned when a method targets a block other than the latest one.
	ErrUnsupportedBlock = errorsmod.Register(ModuleName, 13, "mock node does not support executing methods on non-last block")
	// ErrNonceMismatch is returned when a transaction nonce differs from the sender's next nonce.
	ErrNonceMismatch = errorsmod.Register(ModuleName, 14, "invalid nonce")
	// ErrUnknownContract is returned when a call targets an address without a registered contract.
	ErrUnknownContract = errorsmod.Register(ModuleName, 15, "unknown contract")
	// ErrVerification is returned when expectations are left unsatisfied.
	ErrVerification = errorsmod.Register(ModuleName, 16, "mock verification failed")
	// ErrNotPayable is returned when value is sent to a method that can't receive it.
	ErrNotPayable = errorsmod.Register(ModuleName, 17, "method is not payable")
	// ErrPanic is returned when a predicate or response generator panics while serving a request.
	ErrPanic = errorsmod.Register(ModuleName, 18, "panic while serving request")
)
