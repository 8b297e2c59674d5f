//go:build !linux

package affinity

func Bind(cpu int) (restore func() error, err error) {
	return nil, ErrUnsupported
}

func Current() ([]int, error) {
	return nil, ErrUnsupported
}
