package catalog

// OpenAIConnector is the built-in plugin this service manages: a settings
// surface that lets each user store their own OpenAI API key for the
// platform's AI features.
func OpenAIConnector() Template {
	return Template{
		Plugin: PluginTemplate{
			Slug:             "OpenAIConnector",
			Name:             "OpenAI Connector",
			Description:      "Connect the platform to OpenAI models using your own API key",
			Version:          "1.0.0",
			Icon:             "Sparkles",
			Category:         "ai",
			Official:         true,
			Author:           "PluginHost Team",
			BundleMethod:     "webpack",
			BundleLocation:   "dist/remoteEntry.js",
			Scope:            "user",
			RequiredServices: []string{"api", "event", "settings"},
			Permissions:      []string{"settings.read", "settings.write", "network.external"},
		},
		Modules: []ModuleTemplate{
			{
				ComponentName: "componentOpenAIKeys",
				DisplayName:   "OpenAI API Keys",
				Description:   "Manage the OpenAI API key used by this account",
				Icon:          "Key",
				Category:      "settings",
				Props:         map[string]any{},
				ConfigFields:  map[string]any{},
				RequiredServices: []string{
					"api",
					"settings",
				},
				Layout: map[string]any{
					"minWidth":      4,
					"minHeight":     3,
					"defaultWidth":  6,
					"defaultHeight": 4,
				},
				Tags: []string{"OpenAI", "API Keys", "Settings"},
			},
		},
		Settings: SettingsTemplate{
			DefinitionID:          "openai_api_keys_settings",
			DefinitionName:        "OpenAI API Keys Settings",
			DefinitionDescription: "Configure the OpenAI API key used to access GPT models",
			Category:              "AI Settings",
			Tags:                  []string{"openai_api_keys_settings", "OpenAI", "API Keys", "Settings"},
			InstanceIDPrefix:      "openai_settings",
			InstanceName:          "OpenAI API Keys",
		},
	}
}
