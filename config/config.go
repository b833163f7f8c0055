package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/filesystem"
	"github.com/tunedeck/tunedeck/where"
)

// EnvKeyReplacer maps config keys to env names: player.seek_step becomes player_seek_step.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and env bindings, then reads tunedeck.toml if present.
func Setup() error {
	viper.SetConfigName(constant.Tunedeck)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Tunedeck)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
