package vm

import "sigil/pkg/errors"

// Freeze and seal quantify over the *filtered* own-key list only: private
// symbol keyed properties are left entirely untouched and stay writable and
// configurable regardless of the object's frozen/sealed status.

// Freeze marks v non-extensible and makes every non-private own property
// non-configurable and non-writable. Primitives pass through unchanged.
func Freeze(v Value) error {
	return lockDown(v, true)
}

// Seal marks v non-extensible and makes every non-private own property
// non-configurable. Values stay writable.
func Seal(v Value) error {
	return lockDown(v, false)
}

func lockDown(v Value, freeze bool) error {
	if !v.IsObjectLike() {
		return nil
	}
	if v.Type() != TypeObject && v.Type() != TypeProxy {
		return errors.NewRuntimeError("cannot freeze %s", v.Type())
	}

	if err := PreventExtensions(v); err != nil {
		return err
	}

	keys, err := OwnKeysOf(v)
	if err != nil {
		return err
	}
	notConfigurable := false
	for _, key := range keys {
		desc := PropertyDescriptor{Configurable: &notConfigurable}
		if freeze {
			notWritable := false
			desc.Writable = &notWritable
		}
		if err := DefineProperty(v, key, desc); err != nil {
			return err
		}
	}
	return nil
}

// IsFrozen reports whether v is non-extensible and every non-private own
// property is non-configurable and non-writable. Private properties are
// excluded from the quantification entirely.
func IsFrozen(v Value) (bool, error) {
	return isLockedDown(v, true)
}

// IsSealed reports whether v is non-extensible and every non-private own
// property is non-configurable.
func IsSealed(v Value) (bool, error) {
	return isLockedDown(v, false)
}

func isLockedDown(v Value, frozen bool) (bool, error) {
	if !v.IsObjectLike() {
		return true, nil
	}
	if v.Type() != TypeObject && v.Type() != TypeProxy {
		return false, nil
	}

	extensible, err := IsExtensible(v)
	if err != nil {
		return false, err
	}
	if extensible {
		return false, nil
	}

	keys, err := OwnKeysOf(v)
	if err != nil {
		return false, err
	}
	for _, key := range keys {
		desc, ok, err := GetOwnPropertyDescriptor(v, key)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if desc.Configurable != nil && *desc.Configurable {
			return false, nil
		}
		if frozen && desc.Writable != nil && *desc.Writable {
			return false, nil
		}
	}
	return true, nil
}
