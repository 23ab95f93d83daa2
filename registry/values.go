package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/spf13/cast"
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// ZeroValue returns the default value of an ABI type in its Go representation.
func ZeroValue(t abi.Type) any {
	return zeroValue(t).Interface()
}

func zeroValue(t abi.Type) reflect.Value {
	rt := t.GetType()
	switch t.T {
	case abi.IntTy, abi.UintTy:
		if rt == bigIntType {
			return reflect.ValueOf(new(big.Int))
		}
		return reflect.Zero(rt)
	case abi.BytesTy:
		return reflect.ValueOf([]byte{})
	case abi.SliceTy:
		return reflect.MakeSlice(rt, 0, 0)
	case abi.ArrayTy:
		v := reflect.New(rt).Elem()
		for i := 0; i < t.Size; i++ {
			v.Index(i).Set(zeroValue(*t.Elem))
		}
		return v
	case abi.TupleTy:
		v := reflect.New(rt).Elem()
		for i, elem := range t.TupleElems {
			v.Field(i).Set(zeroValue(*elem))
		}
		return v
	default:
		return reflect.Zero(rt)
	}
}

// Coerce converts v to the Go representation go-ethereum uses for t. Values
// already of that representation are returned unchanged. Integers accept any
// Go integer, *big.Int, *uint256.Int, json.Number and decimal or 0x-prefixed
// strings; addresses, hashes and byte strings accept hex strings.
func Coerce(t abi.Type, v any) (any, error) {
	rv, err := coerce(t, v)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

func coerce(t abi.Type, v any) (reflect.Value, error) {
	rt := t.GetType()
	if v == nil {
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", t.String())
	}
	if reflect.TypeOf(v) == rt {
		return reflect.ValueOf(v), nil
	}

	switch t.T {
	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(v)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("can't use %v as %s: %w", v, t.String(), err)
		}
		return bigToType(t, n)

	case abi.BoolTy:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil

	case abi.StringTy:
		s, err := cast.ToStringE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s), nil

	case abi.AddressTy:
		switch v := v.(type) {
		case string:
			if !common.IsHexAddress(v) {
				return reflect.Value{}, fmt.Errorf("%q is not an address", v)
			}
			return reflect.ValueOf(common.HexToAddress(v)), nil
		case [20]byte:
			return reflect.ValueOf(common.Address(v)), nil
		case *common.Address:
			return reflect.ValueOf(*v), nil
		}

	case abi.BytesTy:
		b, err := toBytes(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil

	case abi.FixedBytesTy, abi.HashTy:
		b, err := toBytes(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) != t.Size && t.T == abi.FixedBytesTy {
			return reflect.Value{}, fmt.Errorf("%s needs %d bytes, got %d", t.String(), t.Size, len(b))
		}
		out := reflect.New(rt).Elem()
		reflect.Copy(out, reflect.ValueOf(b))
		return out, nil

	case abi.SliceTy, abi.ArrayTy:
		in := reflect.ValueOf(v)
		if in.Kind() != reflect.Slice && in.Kind() != reflect.Array {
			break
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(rt, in.Len(), in.Len())
		} else {
			if in.Len() != t.Size {
				return reflect.Value{}, fmt.Errorf("%s needs %d elements, got %d", t.String(), t.Size, in.Len())
			}
			out = reflect.New(rt).Elem()
		}
		for i := 0; i < in.Len(); i++ {
			elem, err := coerce(*t.Elem, in.Index(i).Interface())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil

	case abi.TupleTy:
		return coerceTuple(t, v)
	}

	return reflect.Value{}, fmt.Errorf("can't use %T as %s", v, t.String())
}

func coerceTuple(t abi.Type, v any) (reflect.Value, error) {
	out := reflect.New(t.GetType()).Elem()
	set := func(i int, field any) error {
		elem, err := coerce(*t.TupleElems[i], field)
		if err != nil {
			return fmt.Errorf("tuple field %s: %w", t.TupleRawNames[i], err)
		}
		out.Field(i).Set(elem)
		return nil
	}

	in := reflect.ValueOf(v)
	switch {
	case in.Kind() == reflect.Slice || in.Kind() == reflect.Array:
		if in.Len() != len(t.TupleElems) {
			return reflect.Value{}, fmt.Errorf("%s needs %d fields, got %d", t.String(), len(t.TupleElems), in.Len())
		}
		for i := range t.TupleElems {
			if err := set(i, in.Index(i).Interface()); err != nil {
				return reflect.Value{}, err
			}
		}
	case in.Kind() == reflect.Map && in.Type().Key().Kind() == reflect.String:
		for i, name := range t.TupleRawNames {
			field := in.MapIndex(reflect.ValueOf(name))
			if !field.IsValid() {
				return reflect.Value{}, fmt.Errorf("%s misses field %q", t.String(), name)
			}
			if err := set(i, field.Interface()); err != nil {
				return reflect.Value{}, err
			}
		}
	case in.Kind() == reflect.Struct && in.NumField() == len(t.TupleElems):
		for i := range t.TupleElems {
			if err := set(i, in.Field(i).Interface()); err != nil {
				return reflect.Value{}, err
			}
		}
	default:
		return reflect.Value{}, fmt.Errorf("can't use %T as %s", v, t.String())
	}
	return out, nil
}

func toBigInt(v any) (*big.Int, error) {
	switch v := v.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case *uint256.Int:
		return v.ToBig(), nil
	case uint256.Int:
		return v.ToBig(), nil
	case *hexutil.Big:
		return new(big.Int).Set(v.ToInt()), nil
	case json.Number:
		return parseBigInt(string(v))
	case string:
		return parseBigInt(v)
	case uint, uint8, uint16, uint32, uint64:
		u, err := cast.ToUint64E(v)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(u), nil
	case float32, float64:
		f := cast.ToFloat64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		n, acc := new(big.Float).SetFloat64(f).Int(nil)
		if acc != big.Exact {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		return n, nil
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return nil, err
	}
	return big.NewInt(i), nil
}

func parseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

func bigToType(t abi.Type, n *big.Int) (reflect.Value, error) {
	if t.T == abi.UintTy && n.Sign() < 0 {
		return reflect.Value{}, fmt.Errorf("%s can't hold negative %s", t.String(), n)
	}
	bits, magnitude := t.Size, n
	if t.T == abi.IntTy {
		bits--
		if n.Sign() < 0 {
			// -n-1 has the same bit length as the two's complement payload
			magnitude = new(big.Int).Not(n)
		}
	}
	if magnitude.BitLen() > bits {
		return reflect.Value{}, fmt.Errorf("%s overflows %s", n, t.String())
	}

	rt := t.GetType()
	if rt == bigIntType {
		return reflect.ValueOf(n), nil
	}
	out := reflect.New(rt).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out, nil
}

func toBytes(v any) ([]byte, error) {
	switch v := v.(type) {
	case []byte:
		return v, nil
	case hexutil.Bytes:
		return v, nil
	case common.Hash:
		return v.Bytes(), nil
	case string:
		return hexutil.Decode(v)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, nil
	}
	return nil, fmt.Errorf("can't use %T as bytes", v)
}
