package cpu

import (
	"errors"

	"github.com/ezrec/microsim/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrMemorySize         = errors.New(f("memory size exceeded"))
	ErrHardwareInvariant  = errors.New(f("r0 is not zero"))
	ErrInfiniteLoop       = errors.New(f("deadline exceeded, possible infinite loop"))
	ErrObjectSyntax       = errors.New(f("object line is not a 4 digit hex word"))
	ErrIndentTab          = errors.New(f("tab character"))
	ErrIndentPartial      = errors.New(f("indentation is not four spaces"))
	ErrIndentFirst        = errors.New(f("first line is indented"))
	ErrIndentLabel        = errors.New(f("label is indented"))
	ErrIndentBody         = errors.New(f("line after label is not indented"))
	ErrIndentDirective    = errors.New(f("directive is indented"))
	ErrOrgSyntax          = errors.New(f("org takes one address"))
	ErrConstSyntax        = errors.New(f("const syntax"))
	ErrConstDuplicate     = errors.New(f("const duplicated"))
	ErrDbSyntax           = errors.New(f("db syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrUnsupportedFileType is returned for a path without the expected extension.
type ErrUnsupportedFileType string

func (err ErrUnsupportedFileType) Error() string {
	return f("unsupported file type '%v'", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode identifies the instruction that faulted during execution.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x %v", uint16(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrIndentation is an indentation rule violation.
type ErrIndentation struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrIndentation) Error() string {
	return f("line %d '%v' indentation: %v", err.LineNo, err.Line, err.Err)
}

func (err ErrIndentation) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrAddress reports an address that does not fit the memory bank or an
// instruction field.
type ErrAddress int

func (err ErrAddress) Error() string {
	if err < 0 {
		return f("address -0x%x out of range", -int(err))
	}
	return f("address 0x%x out of range", int(err))
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrMemorySize
}
