// Package rtabi defines the names and signatures shared between the code
// generator and the execution engine.
package rtabi

// AnonFunc is the name given to a bare top-level expression. A unit holds at
// most one, and it is discarded after it runs.
const AnonFunc = "__anon_expr"

// Host function names resolvable by any unit without a declaration body.
const (
	// libm
	FnSin   = "sin"
	FnCos   = "cos"
	FnTan   = "tan"
	FnAtan  = "atan"
	FnExp   = "exp"
	FnLog   = "log"
	FnSqrt  = "sqrt"
	FnFabs  = "fabs"
	FnFloor = "floor"
	FnCeil  = "ceil"
	FnPow   = "pow"

	// I/O
	FnPutchard = "putchard" // writes byte(x) to the session output, returns 0
	FnPrintd   = "printd"   // writes "%f\n" to the session output, returns 0
)

// FuncSignature describes a host function for code generation.
// Every parameter and the result are LLVMTypeFloat.
type FuncSignature struct {
	Name    string
	NParams int
}

// HostFunctions returns the signatures of all host functions.
func HostFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: FnSin, NParams: 1},
		{Name: FnCos, NParams: 1},
		{Name: FnTan, NParams: 1},
		{Name: FnAtan, NParams: 1},
		{Name: FnExp, NParams: 1},
		{Name: FnLog, NParams: 1},
		{Name: FnSqrt, NParams: 1},
		{Name: FnFabs, NParams: 1},
		{Name: FnFloor, NParams: 1},
		{Name: FnCeil, NParams: 1},
		{Name: FnPow, NParams: 2},

		{Name: FnPutchard, NParams: 1},
		{Name: FnPrintd, NParams: 1},
	}
}

// LookupHost returns the signature of the host function name.
func LookupHost(name string) (FuncSignature, bool) {
	for _, sig := range HostFunctions() {
		if sig.Name == name {
			return sig, true
		}
	}
	return FuncSignature{}, false
}
