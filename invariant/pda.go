package invariant

import (
	"bytes"
	"encoding/binary"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/staker"
)

// ProgramID is the deployed invariant program.
var ProgramID = solanago.MustPublicKeyFromBase58("HyaB3W9q6XdA5xwpU4XnSZV94htfmbmqJXZcEbRaJutt")

const (
	stateSeed     = "statev1"
	feeTierSeed   = "feetierv1"
	poolSeed      = "poolv1"
	authoritySeed = "Invariant"
)

// SortTokens orders a pair the way pools expect it, token x first.
func SortTokens(a, b solanago.PublicKey) (tokenX, tokenY solanago.PublicKey) {
	if bytes.Compare(a.Bytes(), b.Bytes()) < 0 {
		return a, b
	}
	return b, a
}

func DeriveStateAddress(programID solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress([][]byte{[]byte(stateSeed)}, programID)
}

func DeriveProgramAuthority(programID solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress([][]byte{[]byte(authoritySeed)}, programID)
}

func feeBytes(fee decimals.FixedPoint) []byte {
	buf := make([]byte, 16)
	fee.Get().PutBytes(buf)
	return buf
}

func DeriveFeeTierAddress(programID solanago.PublicKey, fee decimals.FixedPoint, tickSpacing uint16) (solanago.PublicKey, uint8, error) {
	spacing := make([]byte, 2)
	binary.LittleEndian.PutUint16(spacing, tickSpacing)
	return solanago.FindProgramAddress([][]byte{
		[]byte(feeTierSeed),
		programID.Bytes(),
		feeBytes(fee),
		spacing,
	}, programID)
}

func DerivePoolAddress(programID, feeTier, tokenX, tokenY solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress([][]byte{
		[]byte(poolSeed),
		feeTier.Bytes(),
		tokenX.Bytes(),
		tokenY.Bytes(),
	}, programID)
}

// DeriveStakerAuthority is the owner of incentive token accounts under the
// staker program.
func DeriveStakerAuthority(stakerProgramID solanago.PublicKey) (solanago.PublicKey, uint8, error) {
	return solanago.FindProgramAddress([][]byte{[]byte(staker.AuthoritySeed)}, stakerProgramID)
}
