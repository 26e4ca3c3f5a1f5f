package bytecode

// Program is the assembled bytecode container of spec section 3: an ordered
// constants pool and a flat instruction vector. It is immutable once
// assembled and serializable verbatim.
type Program struct {
	Data []int64 `yaml:"data"`
	Code []Op    `yaml:"code"`
}

// wireOp is the YAML-friendly encoding of an Op: each instruction is a
// single-key mapping from its mnemonic to its argument (or to an empty
// mapping for opcodes with no argument), matching the human-readable document form
// spec section 6 calls for ("the reference uses a human-readable document
// form") and mirroring original_source's serde_yaml-tagged enum encoding.
type wireOp struct {
	Noop            *struct{} `yaml:"noop,omitempty"`
	PushImmediate   *int32    `yaml:"push_immediate,omitempty"`
	PushImmediate24 *int32    `yaml:"push_immediate24,omitempty"`
	PushConst       *struct{} `yaml:"push_const,omitempty"`
	PushStack       *struct{} `yaml:"push_stack,omitempty"`
	Arith           *string   `yaml:"arith,omitempty"`
	Jmp             *string   `yaml:"jmp,omitempty"`
	Output          *int32    `yaml:"output,omitempty"`
	Pop             *string   `yaml:"pop,omitempty"`
	Move            *struct{} `yaml:"move,omitempty"`
	Break           *struct{} `yaml:"break,omitempty"`
}

// MarshalYAML implements yaml.Marshaler, encoding the Op as a single-key
// tagged mapping.
func (op Op) MarshalYAML() (interface{}, error) {
	var w wireOp
	switch op.Code {
	case Noop:
		w.Noop = &struct{}{}
	case PushImmediate:
		v := op.Arg
		w.PushImmediate = &v
	case PushImmediate24:
		v := op.Arg
		w.PushImmediate24 = &v
	case PushConst:
		w.PushConst = &struct{}{}
	case PushStack:
		w.PushStack = &struct{}{}
	case Arith:
		s := ArithOp(op.Arg).String()
		w.Arith = &s
	case Jmp:
		s := Cond(op.Arg).String()
		w.Jmp = &s
	case Output:
		v := op.Arg
		w.Output = &v
	case Pop:
		s := PopMode(op.Arg).String()
		w.Pop = &s
	case Move:
		w.Move = &struct{}{}
	case Break:
		w.Break = &struct{}{}
	}
	return w, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, decoding the single-key tagged
// mapping produced by MarshalYAML back into an Op.
func (op *Op) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w wireOp
	if err := unmarshal(&w); err != nil {
		return err
	}
	switch {
	case w.Noop != nil:
		op.Code = Noop
	case w.PushImmediate != nil:
		op.Code, op.Arg = PushImmediate, *w.PushImmediate
	case w.PushImmediate24 != nil:
		op.Code, op.Arg = PushImmediate24, *w.PushImmediate24
	case w.PushConst != nil:
		op.Code = PushConst
	case w.PushStack != nil:
		op.Code = PushStack
	case w.Arith != nil:
		op.Code, op.Arg = Arith, int32(lookupArithOp(*w.Arith))
	case w.Jmp != nil:
		op.Code, op.Arg = Jmp, int32(lookupCond(*w.Jmp))
	case w.Output != nil:
		op.Code, op.Arg = Output, *w.Output
	case w.Pop != nil:
		op.Code, op.Arg = Pop, int32(lookupPopMode(*w.Pop))
	case w.Move != nil:
		op.Code = Move
	case w.Break != nil:
		op.Code = Break
	}
	return nil
}

func lookupArithOp(s string) ArithOp {
	for i, n := range arithOpNames {
		if n == s {
			return ArithOp(i)
		}
	}
	return Add
}

func lookupCond(s string) Cond {
	for i, n := range condNames {
		if n == s {
			return Cond(i)
		}
	}
	return Always
}

func lookupPopMode(s string) PopMode {
	if s == "one" {
		return One
	}
	return Top
}
