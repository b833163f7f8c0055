package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/color"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/style"
)

// Field is one registered setting with its default value.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Type is the Go type name of the default value, e.g. "float64".
func (f *Field) Type() string {
	if f.Value == nil {
		return "unknown"
	}
	return reflect.TypeOf(f.Value).String()
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	prefix := strings.ToUpper(constant.Tunedeck) + "_"
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// MarshalJSON includes the current value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	type view struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}

	return json.Marshal(view{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.Type(),
	})
}

// highlight colors a value by its kind.
func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		return style.Fg(color.Yellow)(strconv.Quote(value))
	case float64:
		return style.Fg(color.Cyan)(strconv.FormatFloat(value, 'f', -1, 64))
	case int:
		return style.Fg(color.Cyan)(strconv.Itoa(value))
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = lo.Must(template.New("field").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"label":   style.Fg(color.Blue),
	"accent":  style.Fg(color.Purple),
	"current": func(k string) any { return viper.Get(k) },
	"hl":      highlight,
}).Parse(`{{ faint .Description }}
{{ label "Key:" }}     {{ accent .Key }}
{{ label "Env:" }}     {{ .Env }}
{{ label "Type:" }}    {{ .Type }}
{{ label "Value:" }}   {{ hl (current .Key) }}
{{ label "Default:" }} {{ hl .Value }}`))
