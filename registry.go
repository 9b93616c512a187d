package depot

import (
	"errors"

	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
)

// MaxComponents is the number of component types one database can register,
// the bit width of mask.Mask.
const MaxComponents = 256

// componentRegistry assigns every registered component a mask bit, which is
// its index in the layout cache.
type componentRegistry struct {
	layouts Cache[ComponentID, ComponentLayout]
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		layouts: FactoryNewCache[ComponentID, ComponentLayout](MaxComponents),
	}
}

func (r *componentRegistry) register(id ComponentID, layout ComponentLayout) (uint32, error) {
	if err := layout.validate(); err != nil {
		return 0, eris.Wrapf(err, "component %d", id)
	}
	if _, ok := r.layouts.GetIndex(id); ok {
		return 0, eris.Wrapf(ErrComponentRegistered, "component %d", id)
	}
	bit, err := r.layouts.Register(id, layout)
	if err != nil {
		if errors.Is(err, ErrCacheFull) {
			return 0, eris.Wrapf(ErrTooManyComponents, "component %d exceeds %d types", id, MaxComponents)
		}
		return 0, err
	}
	return uint32(bit), nil
}

func (r *componentRegistry) bitFor(id ComponentID) (uint32, bool) {
	bit, ok := r.layouts.GetIndex(id)
	return uint32(bit), ok
}

func (r *componentRegistry) layout(id ComponentID) (ComponentLayout, bool) {
	bit, ok := r.layouts.GetIndex(id)
	if !ok {
		return ComponentLayout{}, false
	}
	return *r.layouts.GetItem(bit), true
}

func (r *componentRegistry) maskFor(sig Signature) (mask.Mask, error) {
	var m mask.Mask
	for id := range sig.All() {
		bit, ok := r.bitFor(id)
		if !ok {
			return mask.Mask{}, eris.Wrapf(ErrComponentNotRegistered, "component %d", id)
		}
		m.Mark(bit)
	}
	return m, nil
}
