package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/wippyai/wasm-exchange/errors"
)

// appendFloat writes f the way the reference serializer does: integral
// values keep a ".0" suffix and non-finite values become null.
func appendFloat(dst []byte, f float32) []byte {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(dst, "null"...)
	}
	start := len(dst)
	format := byte('f')
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, v, format, -1, 32)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(dst)
		if n-start >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
		return dst
	}
	if bytes.IndexByte(dst[start:], '.') < 0 {
		dst = append(dst, '.', '0')
	}
	return dst
}

type wireFloat float32

func (f wireFloat) MarshalJSON() ([]byte, error) {
	return appendFloat(nil, float32(f)), nil
}

// byteList is a byte slice that travels as an array of numbers.
type byteList []byte

func (b byteList) MarshalJSON() ([]byte, error) {
	out := make([]byte, 0, len(b)*4+2)
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']'), nil
}

func decodeByteList(data json.RawMessage, path []string) ([]byte, error) {
	var nums []uint16
	if err := json.Unmarshal(data, &nums); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).Expected("byte array").Cause(err).Build()
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n > math.MaxUint8 {
			return nil, errors.Overflow(errors.PhaseDecode, pathOf(path, strconv.Itoa(i)), n, "u8")
		}
		out[i] = byte(n)
	}
	return out, nil
}

func pathOf(parent []string, elems ...string) []string {
	out := make([]string, 0, len(parent)+len(elems))
	out = append(out, parent...)
	return append(out, elems...)
}

func fieldError(path []string, field string, err error) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path(pathOf(path, field)...).Cause(err).Build()
}

func tokenKind(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "number"
	}
}

// decodeObject reads one JSON object keeping exact key spelling. A key
// that appears twice is an error.
func decodeObject(data []byte, path []string) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).Expected("object").Cause(err).Build()
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).Expected("object").Actual(tokenKind(tok)).Build()
	}
	obj := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(path...).Cause(err).Build()
		}
		key, _ := tok.(string)
		if _, dup := obj[key]; dup {
			return nil, errors.InvalidData(errors.PhaseDecode, pathOf(path, key), "duplicate field "+strconv.Quote(key))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fieldError(path, key, err)
		}
		obj[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).Cause(err).Build()
	}
	return obj, nil
}

// field decodes the required member name of obj into dst.
func field[T any](obj map[string]json.RawMessage, path []string, name string, dst *T) error {
	raw, ok := obj[name]
	if !ok {
		return errors.FieldMissing(errors.PhaseDecode, path, name)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errors.InvalidData(errors.PhaseDecode, pathOf(path, name), "null value")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fieldError(path, name, err)
	}
	return nil
}

// decodeVariant splits an externally tagged value {"Tag": payload}.
func decodeVariant(data []byte, path []string) (string, json.RawMessage, error) {
	obj, err := decodeObject(data, path)
	if err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(path...).Detail("tagged value must have exactly one key, got %d", len(obj)).Build()
	}
	for tag, payload := range obj {
		return tag, payload, nil
	}
	return "", nil, nil
}

// Text

type textOut struct {
	Value  string    `json:"value"`
	X      int32     `json:"x"`
	Y      int32     `json:"y"`
	ScaleX wireFloat `json:"scale_x"`
	ScaleY wireFloat `json:"scale_y"`
	Color  Color     `json:"color"`
	Symbol bool      `json:"symbol"`
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(textOut{
		Value:  t.Value,
		X:      t.X,
		Y:      t.Y,
		ScaleX: wireFloat(t.ScaleX),
		ScaleY: wireFloat(t.ScaleY),
		Color:  t.Color,
		Symbol: t.Symbol,
	})
}

func (t *Text) UnmarshalJSON(data []byte) error {
	return t.decode(data, []string{string(ItemText)})
}

func (t *Text) decode(data []byte, path []string) error {
	obj, err := decodeObject(data, path)
	if err != nil {
		return err
	}
	var (
		out   Text
		color json.RawMessage
	)
	if err := field(obj, path, "value", &out.Value); err != nil {
		return err
	}
	if err := field(obj, path, "x", &out.X); err != nil {
		return err
	}
	if err := field(obj, path, "y", &out.Y); err != nil {
		return err
	}
	if err := field(obj, path, "scale_x", &out.ScaleX); err != nil {
		return err
	}
	if err := field(obj, path, "scale_y", &out.ScaleY); err != nil {
		return err
	}
	if err := field(obj, path, "color", &color); err != nil {
		return err
	}
	if err := field(obj, path, "symbol", &out.Symbol); err != nil {
		return err
	}
	colorPath := pathOf(path, "color")
	rgb, err := decodeByteList(color, colorPath)
	if err != nil {
		return err
	}
	if len(rgb) != len(Color{}) {
		return errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(colorPath...).Expected("3 entries").Actual(strconv.Itoa(len(rgb))).Value(len(rgb)).Build()
	}
	out.Color = Color{rgb[0], rgb[1], rgb[2]}
	*t = out
	return nil
}

// Image

type imageOut struct {
	Value  byteList `json:"value"`
	X      uint32   `json:"x"`
	Y      uint32   `json:"y"`
	Width  uint32   `json:"width"`
	Height uint32   `json:"height"`
}

func (i Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(imageOut{
		Value:  byteList(i.Value),
		X:      i.X,
		Y:      i.Y,
		Width:  i.Width,
		Height: i.Height,
	})
}

func (i *Image) UnmarshalJSON(data []byte) error {
	return i.decode(data, []string{string(ItemImage)})
}

func (i *Image) decode(data []byte, path []string) error {
	obj, err := decodeObject(data, path)
	if err != nil {
		return err
	}
	var (
		out     Image
		payload json.RawMessage
	)
	if err := field(obj, path, "value", &payload); err != nil {
		return err
	}
	if err := field(obj, path, "x", &out.X); err != nil {
		return err
	}
	if err := field(obj, path, "y", &out.Y); err != nil {
		return err
	}
	if err := field(obj, path, "width", &out.Width); err != nil {
		return err
	}
	if err := field(obj, path, "height", &out.Height); err != nil {
		return err
	}
	if out.Value, err = decodeByteList(payload, pathOf(path, "value")); err != nil {
		return err
	}
	*i = out
	return nil
}

// Items

func marshalItem(item Item) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	switch v := item.(type) {
	case Text:
		body, err = v.MarshalJSON()
	case *Text:
		body, err = v.MarshalJSON()
	case Image:
		body, err = v.MarshalJSON()
	case *Image:
		body, err = v.MarshalJSON()
	default:
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidVariant).
			Detail("unsupported item %T", item).Build()
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(item.ItemKind())+5)
	out = append(out, `{"`...)
	out = append(out, item.ItemKind()...)
	out = append(out, `":`...)
	out = append(out, body...)
	return append(out, '}'), nil
}

func decodeItem(data []byte, path []string) (Item, error) {
	tag, payload, err := decodeVariant(data, path)
	if err != nil {
		return nil, err
	}
	switch ItemKind(tag) {
	case ItemText:
		var t Text
		if err := t.decode(payload, pathOf(path, tag)); err != nil {
			return nil, err
		}
		return t, nil
	case ItemImage:
		var i Image
		if err := i.decode(payload, pathOf(path, tag)); err != nil {
			return nil, err
		}
		return i, nil
	}
	return nil, errors.InvalidVariant(errors.PhaseDecode, path, tag, string(ItemText), string(ItemImage))
}

// ExchangeFormat

func (f ExchangeFormat) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"items":[`)
	for i, item := range f.Items {
		if item == nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path("items", strconv.Itoa(i)).Detail("nil item").Build()
		}
		if i > 0 {
			b.WriteByte(',')
		}
		body, err := marshalItem(item)
		if err != nil {
			return nil, err
		}
		b.Write(body)
	}
	b.WriteString("]}")
	return b.Bytes(), nil
}

func (f *ExchangeFormat) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data, nil)
	if err != nil {
		return err
	}
	var raws []json.RawMessage
	if err := field(obj, nil, "items", &raws); err != nil {
		return err
	}
	items := make([]Item, 0, len(raws))
	for i, raw := range raws {
		item, err := decodeItem(raw, []string{"items", strconv.Itoa(i)})
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	*f = ExchangeFormat{Items: items}
	return nil
}

// Param

func (p Param) MarshalJSON() ([]byte, error) {
	if !p.IsValid() {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidVariant).
			Detail("zero Param").Build()
	}
	out := make([]byte, 0, 32)
	out = append(out, `{"`...)
	out = append(out, p.kind.String()...)
	out = append(out, `":`...)
	switch p.kind {
	case ParamInteger:
		out = strconv.AppendUint(out, uint64(p.num), 10)
	case ParamFloat:
		out = appendFloat(out, p.flt)
	default:
		s, err := json.Marshal(p.str)
		if err != nil {
			return nil, err
		}
		out = append(out, s...)
	}
	return append(out, '}'), nil
}

func (p *Param) UnmarshalJSON(data []byte) error {
	return p.decode(data, nil)
}

func (p *Param) decode(data []byte, path []string) error {
	tag, payload, err := decodeVariant(data, path)
	if err != nil {
		return err
	}
	kind, ok := parseParamKind(tag)
	if !ok {
		return errors.InvalidVariant(errors.PhaseDecode, path, tag,
			ParamInteger.String(), ParamString.String(), ParamFloat.String(), ParamPassword.String())
	}
	if bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return errors.InvalidData(errors.PhaseDecode, pathOf(path, tag), "null payload")
	}
	switch kind {
	case ParamInteger:
		var v uint32
		if err := json.Unmarshal(payload, &v); err != nil {
			return fieldError(path, tag, err)
		}
		*p = Integer(v)
	case ParamFloat:
		var v float32
		if err := json.Unmarshal(payload, &v); err != nil {
			return fieldError(path, tag, err)
		}
		*p = Float(v)
	default:
		var v string
		if err := json.Unmarshal(payload, &v); err != nil {
			return fieldError(path, tag, err)
		}
		*p = Param{kind: kind, str: v}
	}
	return nil
}

// ExchangeableConfig

func (c ExchangeableConfig) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"params":[`)
	for i, k := range c.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := c.values[k].MarshalJSON()
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = []string{"params", k}
			}
			return nil, err
		}
		b.WriteByte('[')
		b.Write(key)
		b.WriteByte(',')
		b.Write(val)
		b.WriteByte(']')
	}
	b.WriteString("]}")
	return b.Bytes(), nil
}

func (c *ExchangeableConfig) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data, nil)
	if err != nil {
		return err
	}
	var pairs [][]json.RawMessage
	if err := field(obj, nil, "params", &pairs); err != nil {
		return err
	}
	var out ExchangeableConfig
	for i, pair := range pairs {
		path := []string{"params", strconv.Itoa(i)}
		if len(pair) != 2 {
			return errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(path...).Detail("expected [key, param] pair, got %d elements", len(pair)).Build()
		}
		var key string
		if err := json.Unmarshal(pair[0], &key); err != nil {
			return errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(path...).Expected("string key").Cause(err).Build()
		}
		var p Param
		if err := p.decode(pair[1], []string{"params", key}); err != nil {
			return err
		}
		out.Add(key, p)
	}
	*c = out
	return nil
}
