package docmodel

// Observer is notified of engine events. The metrics package implements it.
type Observer interface {
	PropCalculated(componentType, prop string, changed bool)
	InvertFailed(componentType, prop string, err error)
	LeavesWritten(n int)
}

type noopObserver struct{}

func (noopObserver) PropCalculated(string, string, bool) {}
func (noopObserver) InvertFailed(string, string, error)  {}
func (noopObserver) LeavesWritten(int)                   {}

// Option configures a DocumentModel.
type Option func(*DocumentModel)

// WithObserver installs an observer.
func WithObserver(o Observer) Option {
	return func(dm *DocumentModel) {
		if o != nil {
			dm.observer = o
		}
	}
}
