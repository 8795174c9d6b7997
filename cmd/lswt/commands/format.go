package commands

import (
	"fmt"
	"strconv"

	"github.com/bryanchriswhite/lswt/internal/render"
	"github.com/spf13/pflag"
)

// formatSelection is shared by the format flags; at most one of them may
// be given.
type formatSelection struct {
	flag   string
	format render.Format
	custom render.Custom
}

// formatFlag is a pflag.Value selecting one output format.
type formatFlag struct {
	sel    *formatSelection
	name   string
	format render.Format
	value  string
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string {
	return f.value
}

func (f *formatFlag) Type() string {
	if f.format == render.FormatCustom {
		return "format"
	}
	return "bool"
}

func (f *formatFlag) Set(value string) error {
	if f.sel.flag != "" {
		return fmt.Errorf("only one output format may be given, --%s was already set", f.sel.flag)
	}

	switch f.format {
	case render.FormatCustom:
		c, err := render.ParseCustom(value)
		if err != nil {
			return err
		}
		f.sel.custom = c
	default:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		if !on {
			return nil
		}
	}

	f.value = value
	f.sel.flag = f.name
	f.sel.format = f.format
	return nil
}

func addFormatFlags(flags *pflag.FlagSet, sel *formatSelection) {
	flags.VarPF(&formatFlag{sel: sel, name: "json", format: render.FormatJSON}, "json", "j",
		"output JSON").NoOptDefVal = "true"
	flags.VarPF(&formatFlag{sel: sel, name: "tsv", format: render.FormatTSV}, "tsv", "t",
		"output tab separated values").NoOptDefVal = "true"
	flags.VarP(&formatFlag{sel: sel, name: "custom", format: render.FormatCustom}, "custom", "c",
		"output in a custom format: a delimiter followed by field codes")
}
