// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/absmach/uadiscovery/machinery/gopcua"
	"github.com/absmach/uadiscovery/pkg/errors"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
)

type security struct {
	Policy   string `toml:"policy"`
	Mode     string `toml:"mode"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

type discovery struct {
	MaxDepth              uint `toml:"max_depth"`
	LenientTypeDefinition bool `toml:"lenient_type_definition"`
}

type config struct {
	Security  security  `toml:"security"`
	Discovery discovery `toml:"discovery"`
	RawOutput string    `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail            = errors.New("failed to read config file")
	errNoKey               = errors.New("no such key")
	errUnsupportedKeyValue = errors.New("unsupported data type for key")
	errWritingConfig       = errors.New("error in writing the updated config to file")
	defaultConfigPath      = "./config.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, err
	}

	return c, nil
}

// ParseConfig - parses the config file.
func ParseConfig(opcConf gopcua.Config) (gopcua.Config, error) {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	// If the file does not exist, create it with default values.
	case os.IsNotExist(err):
		defaultConfig := config{
			Security: security{
				Policy: opcConf.Policy,
				Mode:   opcConf.Mode,
			},
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return opcConf, err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return opcConf, errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return opcConf, err
	}

	config, err := read(ConfigPath)
	if err != nil {
		return opcConf, err
	}

	if config.RawOutput != "" {
		rawOutput, err := strconv.ParseBool(config.RawOutput)
		if err != nil {
			return opcConf, err
		}
		RawOutput = rawOutput
	}

	if config.Discovery.MaxDepth != 0 {
		MaxDepth = config.Discovery.MaxDepth
	}
	if config.Discovery.LenientTypeDefinition {
		Lenient = true
	}

	opcConf.Policy = config.Security.Policy
	opcConf.Mode = config.Security.Mode
	opcConf.CertFile = config.Security.CertFile
	opcConf.KeyFile = config.Security.KeyFile

	return opcConf, nil
}

// NewConfigCmd returns config command to store params to local TOML file.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <key> <value>",
		Short: "CLI local config",
		Long:  "Local param storage to prevent repetitive passing of keys",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			if err := setConfigValue(args[0], args[1]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logOKCmd(*cmd)
		},
	}
}

func setConfigValue(key, value string) error {
	config, err := read(ConfigPath)
	if err != nil {
		return err
	}

	configKeyToField := map[string]interface{}{
		"policy":                  &config.Security.Policy,
		"mode":                    &config.Security.Mode,
		"cert_file":               &config.Security.CertFile,
		"key_file":                &config.Security.KeyFile,
		"max_depth":               &config.Discovery.MaxDepth,
		"lenient_type_definition": &config.Discovery.LenientTypeDefinition,
		"raw_output":              &config.RawOutput,
	}

	fieldPtr, ok := configKeyToField[key]
	if !ok {
		return errNoKey
	}

	fieldValue := reflect.ValueOf(fieldPtr).Elem()

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(value)
	case reflect.Uint:
		uintValue, err := strconv.ParseUint(value, 10, 0)
		if err != nil {
			return err
		}
		fieldValue.SetUint(uintValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		fieldValue.SetBool(boolValue)
	default:
		return errUnsupportedKeyValue
	}

	buf, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
		return errors.Wrap(errWritingConfig, err)
	}

	return nil
}
