package replay

type BinaryOp uint8

const (
	BinaryPower BinaryOp = iota + 1
	BinaryMultiply
	// BinaryDivide is classic division. It is always rejected.
	BinaryDivide
	BinaryTrueDivide
	BinaryFloorDivide
	BinaryModulo
	BinaryAdd
	BinarySubtract
	BinarySubscript
	BinaryLshift
	BinaryRshift
	BinaryAnd
	BinaryXor
	BinaryOr
)

var binarySymbols = [...]string{
	BinaryPower:       "**",
	BinaryMultiply:    "*",
	BinaryDivide:      "/",
	BinaryTrueDivide:  "/",
	BinaryFloorDivide: "//",
	BinaryModulo:      "%",
	BinaryAdd:         "+",
	BinarySubtract:    "-",
	BinarySubscript:   "[",
	BinaryLshift:      "<<",
	BinaryRshift:      ">>",
	BinaryAnd:         "&",
	BinaryXor:         "^",
	BinaryOr:          "|",
}

func (b BinaryOp) Symbol() string {
	if int(b) < len(binarySymbols) {
		return binarySymbols[b]
	}
	return "?"
}

func (b BinaryOp) String() string {
	return b.Symbol()
}
