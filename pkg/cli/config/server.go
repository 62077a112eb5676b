package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr           string
	UploadMaxBytes int64
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("CEPLOOKUP_ADDR"),
		},
		&cli.Int64Flag{
			Name:        "upload-max-bytes",
			Usage:       "Maximum size of an uploaded workbook",
			Value:       10 << 20,
			Destination: &c.UploadMaxBytes,
			Sources:     cli.EnvVars("CEPLOOKUP_UPLOAD_MAX_BYTES"),
		},
	}
}
