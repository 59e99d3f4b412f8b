package cells

func Compute1[T0, O comparable](
	r *Reactor,
	arg0 Cell,
	fn func(T0) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(args[0].(T0))
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0), anyFn)}
}

func Compute2[T0, T1, O comparable](
	r *Reactor,
	arg0, arg1 Cell,
	fn func(T0, T1) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
		)
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0, arg1), anyFn)}
}

func Compute3[T0, T1, T2, O comparable](
	r *Reactor,
	arg0, arg1, arg2 Cell,
	fn func(T0, T1, T2) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
		)
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0, arg1, arg2), anyFn)}
}

func Compute4[T0, T1, T2, T3, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3 Cell,
	fn func(T0, T1, T2, T3) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
		)
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0, arg1, arg2, arg3), anyFn)}
}

func Compute5[T0, T1, T2, T3, T4, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4 Cell,
	fn func(T0, T1, T2, T3, T4) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
		)
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0, arg1, arg2, arg3, arg4), anyFn)}
}

func Compute6[T0, T1, T2, T3, T4, T5, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4, arg5 Cell,
	fn func(T0, T1, T2, T3, T4, T5) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
		)
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0, arg1, arg2, arg3, arg4, arg5), anyFn)}
}

func Compute7[T0, T1, T2, T3, T4, T5, T6, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4, arg5, arg6 Cell,
	fn func(T0, T1, T2, T3, T4, T5, T6) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
			args[6].(T6),
		)
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0, arg1, arg2, arg3, arg4, arg5, arg6), anyFn)}
}

func Compute8[T0, T1, T2, T3, T4, T5, T6, T7, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4, arg5, arg6, arg7 Cell,
	fn func(T0, T1, T2, T3, T4, T5, T6, T7) O,
) *ComputeCell[O] {
	anyFn := func(args []any) any {
		return fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
			args[6].(T6),
			args[7].(T7),
		)
	}
	return &ComputeCell[O]{r: r, c: r.compute(depsOf(arg0, arg1, arg2, arg3, arg4, arg5, arg6, arg7), anyFn)}
}

func TryCompute1[T0, O comparable](
	r *Reactor,
	arg0 Cell,
	fn func(T0) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(args[0].(T0))
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}

func TryCompute2[T0, T1, O comparable](
	r *Reactor,
	arg0, arg1 Cell,
	fn func(T0, T1) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(
			args[0].(T0),
			args[1].(T1),
		)
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0, arg1), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}

func TryCompute3[T0, T1, T2, O comparable](
	r *Reactor,
	arg0, arg1, arg2 Cell,
	fn func(T0, T1, T2) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
		)
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0, arg1, arg2), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}

func TryCompute4[T0, T1, T2, T3, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3 Cell,
	fn func(T0, T1, T2, T3) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
		)
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0, arg1, arg2, arg3), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}

func TryCompute5[T0, T1, T2, T3, T4, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4 Cell,
	fn func(T0, T1, T2, T3, T4) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
		)
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0, arg1, arg2, arg3, arg4), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}

func TryCompute6[T0, T1, T2, T3, T4, T5, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4, arg5 Cell,
	fn func(T0, T1, T2, T3, T4, T5) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
		)
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0, arg1, arg2, arg3, arg4, arg5), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}

func TryCompute7[T0, T1, T2, T3, T4, T5, T6, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4, arg5, arg6 Cell,
	fn func(T0, T1, T2, T3, T4, T5, T6) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
			args[6].(T6),
		)
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0, arg1, arg2, arg3, arg4, arg5, arg6), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}

func TryCompute8[T0, T1, T2, T3, T4, T5, T6, T7, O comparable](
	r *Reactor,
	arg0, arg1, arg2, arg3, arg4, arg5, arg6, arg7 Cell,
	fn func(T0, T1, T2, T3, T4, T5, T6, T7) (O, error),
) (*ComputeCell[O], error) {
	anyFn := func(args []any) (any, error) {
		v, err := fn(
			args[0].(T0),
			args[1].(T1),
			args[2].(T2),
			args[3].(T3),
			args[4].(T4),
			args[5].(T5),
			args[6].(T6),
			args[7].(T7),
		)
		return v, err
	}
	c, err := r.newCompute(depsOf(arg0, arg1, arg2, arg3, arg4, arg5, arg6, arg7), anyFn)
	if err != nil {
		return nil, err
	}
	return &ComputeCell[O]{r: r, c: c}, nil
}
