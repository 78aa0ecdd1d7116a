package config

import (
	"reflect"
	"strconv"
	"time"
)

func configDefault(c any) {
	configDefaultReflect(reflect.ValueOf(c).Elem())
}

func configDefaultReflect(v reflect.Value) {
	tp := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanSet() {
			continue
		}

		if f.Kind() == reflect.Struct {
			configDefaultReflect(f)
			continue
		}

		tag := tp.Field(i).Tag.Get("default")
		if tag == "" {
			continue
		}

		setValue(f, tag)
	}
}

var durationTypes = map[reflect.Type]struct{}{
	reflect.TypeOf(time.Duration(0)): {},
	reflect.TypeOf(Duration(0)):      {},
}

func setValue(v reflect.Value, s string) {
	switch v.Type().Kind() {
	case reflect.Int, reflect.Int64:
		if _, ok := durationTypes[v.Type()]; ok {
			d, err := time.ParseDuration(s)
			if err != nil {
				panic(err)
			}
			v.SetInt(int64(d))
			return
		}

		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			panic(err)
		}
		v.SetInt(i)
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		v.SetBool(s == "true")
	default:
		panic("not supported type: " + v.Type().String())
	}
}
