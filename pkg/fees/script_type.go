package fees

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcwallet/wallet/txsizes"
)

const (
	P2WPKH ScriptType = iota
	P2PKH
	P2SH_P2WPKH
	P2TR
)

var (
	ErrUnknownScriptType = fmt.Errorf("unknown script type")

	scriptTypeString = map[ScriptType]string{
		P2WPKH:      "p2wpkh",
		P2PKH:       "p2pkh",
		P2SH_P2WPKH: "p2sh-p2wpkh",
		P2TR:        "p2tr",
	}
	scriptTypeAlias = map[string]ScriptType{
		"native-segwit": P2WPKH,
		"legacy":        P2PKH,
		"nested-segwit": P2SH_P2WPKH,
		"taproot":       P2TR,
	}
	pkScriptSizeByScriptType = map[ScriptType]int{
		P2WPKH:      txsizes.P2WPKHPkScriptSize,
		P2PKH:       txsizes.P2PKHPkScriptSize,
		P2SH_P2WPKH: txsizes.NestedP2WPKHPkScriptSize,
		P2TR:        txsizes.P2TRPkScriptSize,
	}
)

// ScriptType identifies the kind of script locking an input or output. The
// zero value is native segwit (P2WPKH).
type ScriptType int

func (t ScriptType) String() string {
	if str, ok := scriptTypeString[t]; ok {
		return str
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// PkScriptSize returns the size of the output script for the type.
func (t ScriptType) PkScriptSize() int {
	if size, ok := pkScriptSizeByScriptType[t]; ok {
		return size
	}
	return txsizes.P2WPKHPkScriptSize
}

// ParseScriptType accepts either the script name (p2pkh, p2sh-p2wpkh,
// p2wpkh, p2tr) or its family (legacy, nested-segwit, native-segwit,
// taproot).
func ParseScriptType(str string) (ScriptType, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	if t, ok := scriptTypeAlias[str]; ok {
		return t, nil
	}
	for t, name := range scriptTypeString {
		if name == str {
			return t, nil
		}
	}
	return -1, fmt.Errorf("%w %q", ErrUnknownScriptType, str)
}

// ParseScriptTypes parses a list of script types.
func ParseScriptTypes(list []string) ([]ScriptType, error) {
	types := make([]ScriptType, 0, len(list))
	for _, str := range list {
		t, err := ParseScriptType(str)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}
