/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/valpere/dovid/internal/generator"
)

// buildGenerator constructs the text-generation backend selected by name.
// "none" (or empty) returns nil, which puts the translator into
// deterministic fallback mode. Connection parameters come from viper, so
// config file, DOVID_* environment, and flags all feed the same keys.
func buildGenerator(name string) (generator.Generator, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "openai":
		return generator.NewOpenAIGenerator(generator.Config{
			APIKey:  viper.GetString("openai.api-key"),
			Model:   viper.GetString("openai.model"),
			BaseURL: viper.GetString("openai.base-url"),
		})
	case "ollama":
		return generator.NewOllamaGenerator(generator.Config{
			Model:   viper.GetString("ollama.model"),
			BaseURL: viper.GetString("ollama.url"),
		}), nil
	case "gemini":
		return generator.NewGeminiGenerator(generator.Config{
			APIKey:  viper.GetString("gemini.api-key"),
			Model:   viper.GetString("gemini.model"),
			BaseURL: viper.GetString("gemini.base-url"),
		})
	default:
		return nil, fmt.Errorf("unknown generator backend: %s", name)
	}
}
