package goricci

import "errors"

var (
	ErrCovarRank            = errors.New("goricci: covariance/rank mismatch")
	ErrSymmetry             = errors.New("goricci: symmetry does not cover the tensor rank")
	ErrDimension            = errors.New("goricci: array dimension does not match the metric")
	ErrIndexCount           = errors.New("goricci: wrong number of indices")
	ErrContravariantPartial = errors.New("goricci: partial derivatives cannot have a contravariant index")
	ErrRank                 = errors.New("goricci: operation needs a rank-2 tensor")
	ErrSingular             = errors.New("goricci: metric is singular")
	ErrUnresolved           = errors.New("goricci: tensor has no replacement entry")
	ErrIndexStructure       = errors.New("goricci: invalid index structure")
	ErrFreeIndices          = errors.New("goricci: terms have different free indices")
	ErrOperatorOperand      = errors.New("goricci: operator cannot be used as an operand")
)
