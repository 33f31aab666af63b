// Package config loads the configuration of AFS connectors and the afs CLI.
//
// A configuration file is YAML. ${VAR_NAME} references are replaced with
// environment variable values before parsing:
//
//	connector:
//	  host: afs.example.com
//	  scheme: https
//	  service:
//	    id: ${AFS_SERVICE_ID}
//	    status: stable
//	  http:
//	    request_timeout: 5s
//	    enable_gzip: true
//	logging:
//	  level: info
//	  encoding: json
//	tracing:
//	  enabled: false
//
// Loading a file:
//
//	cfg, err := config.LoadFile("afs.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	c, err := search.New(cfg.Connector)
//
// Missing sections take the values of Default.
package config
