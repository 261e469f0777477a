package eth

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrBadSignature = errors.New("signature does not match address")

// LoginMessage is the text a wallet signs with personal_sign to log in.
func LoginMessage(address, nonce string) string {
	return fmt.Sprintf("Sign in to CreatorPay\n\nAddress: %s\nNonce: %s", address, nonce)
}

// VerifySignature checks an EIP-191 personal_sign signature over message.
func VerifySignature(address common.Address, message, signature string) error {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrBadSignature, crypto.SignatureLength, len(sig))
	}

	// Wallets return V as 27/28.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if crypto.PubkeyToAddress(*pub) != address {
		return ErrBadSignature
	}
	return nil
}
