package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	WsPort   int    `hcl:"ws_port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// TableConfig defines a table provisioned at boot, before any client asks
// for one.
type TableConfig struct {
	Name       string `hcl:"name,label"`
	MaxPlayers int    `hcl:"max_players,optional"`
	WinAt      int    `hcl:"win_at,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     4000,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{
				Name:       "main",
				MaxPlayers: 2,
				WinAt:      51,
			},
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file is not an error: the defaults are used.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 4000
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	for i := range config.Tables {
		if config.Tables[i].MaxPlayers == 0 {
			config.Tables[i].MaxPlayers = 2
		}
		if config.Tables[i].WinAt == 0 {
			config.Tables[i].WinAt = 51
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.WsPort != 0 && (c.Server.WsPort < 1 || c.Server.WsPort > 65535) {
		return fmt.Errorf("invalid websocket port: %d", c.Server.WsPort)
	}

	for _, table := range c.Tables {
		if table.MaxPlayers < 2 || table.MaxPlayers > 4 {
			return fmt.Errorf("table %s: max players must be between 2 and 4", table.Name)
		}
		if table.WinAt < 1 {
			return fmt.Errorf("table %s: win threshold must be positive", table.Name)
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetWebsocketAddress returns the websocket listen address, or empty when
// the websocket listener is disabled.
func (c *ServerConfig) GetWebsocketAddress() string {
	if c.Server.WsPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.WsPort)
}

// Provision creates the configured tables before the server starts
// accepting connections.
func (s *Server) Provision(tables []TableConfig) {
	for _, tc := range tables {
		t := newTable(s.nextTableID, tc.Name, tc.MaxPlayers, tc.WinAt, s.rng)
		t.permanent = true
		s.nextTableID++
		s.tables[t.id] = t
		s.logger.Info("Table provisioned", "table", t.id, "name", t.name, "win_at", t.winAt)
	}
	s.tableCount.Store(int64(len(s.tables)))
}
