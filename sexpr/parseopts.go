package sexpr

// DefaultPrec is the precision in bits of numbers when no other precision is
// given.
const DefaultPrec = 256

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

// parsectx holds general data for parsing.
type parsectx struct {
	// prec is the precision of parsed numbers.
	prec uint
}

type precopt uint

// ParsePrec sets the precision in bits of number literals. Zero means the
// default precision.
func ParsePrec(prec uint) ParseOption {
	return precopt(prec)
}

func (o precopt) parseOption(p parsectx) parsectx {
	p.prec = uint(o)
	if p.prec == 0 {
		p.prec = DefaultPrec
	}
	return p
}
