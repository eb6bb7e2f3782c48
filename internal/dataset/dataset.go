// Package dataset maps decoded MAT containers onto the battery test
// schema: a top-level battery struct array whose elements each hold a
// struct array of cycles with named signal fields. It sits between the
// format-level matfile decoder and the feature extractor, so everything
// above it works with plain Go values.
package dataset

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"battexplorer/internal/errors"
	"battexplorer/internal/matfile"
)

// Names the schema uses inside the MAT containers.
const (
	VarBattery        = "battery"
	FieldRelativeTime = "relative_time_min"
	FieldCurrent      = "current_A"
	FieldVoltage      = "voltage_V"
	FieldTemperature  = "temperature_C"
	FieldCapacity     = "capacity"
)

// cycleListFields are the accepted names for a battery's cycle array,
// in lookup order. A battery struct with exactly one field falls back
// to that field regardless of its name.
var cycleListFields = []string{"cycle", "cycles"}

// Cycle is one decoded test cycle. The four signals keep their raw
// sample sequences; capacity is already unwrapped from its length-1
// array. Signals may be empty at this layer, the extractor decides
// whether that is acceptable.
type Cycle struct {
	RelativeTimeMin []float64 `json:"relative_time_min" validate:"required"`
	CurrentA        []float64 `json:"current_A" validate:"required"`
	VoltageV        []float64 `json:"voltage_V" validate:"required"`
	TemperatureC    []float64 `json:"temperature_C" validate:"required"`
	Capacity        float64   `json:"capacity"`
}

// Signal pairs a schema field name with its samples.
type Signal struct {
	Name    string
	Samples []float64
}

// Signals returns the four measurement sequences in canonical order:
// time, current, voltage, temperature.
func (c *Cycle) Signals() []Signal {
	return []Signal{
		{Name: FieldRelativeTime, Samples: c.RelativeTimeMin},
		{Name: FieldCurrent, Samples: c.CurrentA},
		{Name: FieldVoltage, Samples: c.VoltageV},
		{Name: FieldTemperature, Samples: c.TemperatureC},
	}
}

// Battery is one element of the battery struct array.
type Battery struct {
	Cycles []Cycle
}

// File is one fully decoded dataset file.
type File struct {
	Path      string
	Batteries []Battery
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ReadFile decodes one MAT container and maps it onto the battery schema.
func ReadFile(path string) (*File, error) {
	mf, err := matfile.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := fromMatFile(mf)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr.WithContext("path", path)
		}
		return nil, err
	}
	f.Path = path
	return f, nil
}

func fromMatFile(mf *matfile.File) (*File, error) {
	battery, ok := mf.Var(VarBattery)
	if !ok {
		return nil, schemaErr("variable %q not found; file contains %v", VarBattery, mf.Vars())
	}
	if battery.Class != matfile.ClassStruct {
		return nil, schemaErr("variable %q is %s, want a struct array", VarBattery, battery.Class)
	}

	batteries := make([]Battery, 0, battery.NumElements())
	for i := 0; i < battery.NumElements(); i++ {
		cyclesArr, err := cycleList(battery, i)
		if err != nil {
			return nil, err
		}

		cycles := make([]Cycle, 0, cyclesArr.NumElements())
		for j := 0; j < cyclesArr.NumElements(); j++ {
			c, err := decodeCycle(cyclesArr, i, j)
			if err != nil {
				return nil, err
			}
			cycles = append(cycles, c)
		}
		batteries = append(batteries, Battery{Cycles: cycles})
	}
	return &File{Batteries: batteries}, nil
}

// cycleList locates battery element i's cycle array.
func cycleList(battery *matfile.Array, i int) (*matfile.Array, error) {
	var arr *matfile.Array
	var name string
	for _, candidate := range cycleListFields {
		if a, ok := battery.Field(i, candidate); ok {
			arr, name = a, candidate
			break
		}
	}
	if arr == nil {
		fields := battery.FieldNames()
		if len(fields) != 1 {
			return nil, schemaErr("battery %d has no cycle field among %v", i+1, fields)
		}
		arr, _ = battery.Field(i, fields[0])
		name = fields[0]
	}
	if arr.Class != matfile.ClassStruct {
		return nil, schemaErr("battery %d field %q is %s, want a struct array of cycles", i+1, name, arr.Class)
	}
	return arr, nil
}

func decodeCycle(cycles *matfile.Array, batteryIdx, cycleIdx int) (Cycle, error) {
	read := func(field string) ([]float64, error) {
		arr, ok := cycles.Field(cycleIdx, field)
		if !ok {
			return nil, schemaErr("battery %d cycle %d is missing field %q", batteryIdx+1, cycleIdx, field)
		}
		vals, err := arr.Float64s()
		if err != nil {
			return nil, schemaErr("battery %d cycle %d field %q is %s, want numeric", batteryIdx+1, cycleIdx, field, arr.Class)
		}
		if vals == nil {
			vals = []float64{}
		}
		return vals, nil
	}

	var c Cycle
	var err error
	if c.RelativeTimeMin, err = read(FieldRelativeTime); err != nil {
		return Cycle{}, err
	}
	if c.CurrentA, err = read(FieldCurrent); err != nil {
		return Cycle{}, err
	}
	if c.VoltageV, err = read(FieldVoltage); err != nil {
		return Cycle{}, err
	}
	if c.TemperatureC, err = read(FieldTemperature); err != nil {
		return Cycle{}, err
	}

	capVals, err := read(FieldCapacity)
	if err != nil {
		return Cycle{}, err
	}
	if len(capVals) == 0 {
		return Cycle{}, schemaErr("battery %d cycle %d has an empty %q array", batteryIdx+1, cycleIdx, FieldCapacity)
	}
	c.Capacity = capVals[0]

	if err := validate.Struct(&c); err != nil {
		return Cycle{}, errors.NewSchemaError(
			fmt.Sprintf("schema mismatch: battery %d cycle %d failed validation", batteryIdx+1, cycleIdx), err)
	}
	return c, nil
}

func schemaErr(format string, args ...interface{}) *errors.AppError {
	return errors.NewSchemaError("schema mismatch: "+fmt.Sprintf(format, args...), nil)
}
