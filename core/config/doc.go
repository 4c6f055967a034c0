// Package config loads the entity-store configuration.
//
// Values come from, in increasing precedence: struct tag defaults, a
// config.yaml in the given directory, a .env file and the environment.
// Environment keys are the upper-cased dotted path with dots replaced by
// underscores (STORE_API_URL sets store.api_url).
//
// # Sections
//
//   - server: listen port, API key, metrics path
//   - store: API base URL, id attribute, schema file, debounce window
//   - sync: HTTP timeout and static request headers
//   - cache: snapshot backend (none, memory, database, object) and key prefix
//   - storage: MinIO credentials and bucket
//   - database: gorm driver and connection details
//   - log: level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Store.SchemaFile)
package config
