package replay

import "fmt"

type OpCode uint8

const (
	OpLoadGlobal OpCode = iota + 1
	OpLoadLocal
	OpLoadConst
	OpLoadAttr
	OpLoadMethod
	OpCall
	OpStoreLocal
	OpPop
	OpDupTop
	OpRotate
	OpBinary
	OpInplace
	OpBuildList
	OpBuildTuple
	OpBuildSet
	OpCompare
	OpIs
	OpContains
	OpReturn
)

var opNames = [...]string{
	OpLoadGlobal: "LOAD_GLOBAL",
	OpLoadLocal:  "LOAD_LOCAL",
	OpLoadConst:  "LOAD_CONST",
	OpLoadAttr:   "LOAD_ATTR",
	OpLoadMethod: "LOAD_METHOD",
	OpCall:       "CALL",
	OpStoreLocal: "STORE_LOCAL",
	OpPop:        "POP",
	OpDupTop:     "DUPLICATE_TOP",
	OpRotate:     "ROTATE",
	OpBinary:     "BINARY_OP",
	OpInplace:    "INPLACE_OP",
	OpBuildList:  "BUILD_LIST",
	OpBuildTuple: "BUILD_TUPLE",
	OpBuildSet:   "BUILD_SET",
	OpCompare:    "COMPARE",
	OpIs:         "IS",
	OpContains:   "CONTAINS",
	OpReturn:     "RETURN",
}

func (o OpCode) String() string {
	if int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return fmt.Sprintf("OpCode(%d)", uint8(o))
}

// IsCheck reports whether the opcode produces a boolean check result.
func (o OpCode) IsCheck() bool {
	return o == OpCompare || o == OpIs || o == OpContains
}

func (o OpCode) With(arg any) Instruction {
	return Instruction{
		Op:  o,
		Arg: arg,
	}
}

func (o OpCode) At(line int) Instruction {
	return Instruction{
		Op:   o,
		Line: line,
	}
}
