package config

import (
	"reflect"
	"strings"
)

func yamlFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
