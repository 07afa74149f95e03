// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds each config key to the named flag. Only flags set on the
// command line override the file and environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			panic(fmt.Sprintf("rulial: unknown flag %q", name))
		}
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	}
}
