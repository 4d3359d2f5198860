// Package config provides configuration management for authsession.
//
// Configuration is loaded from config.yaml in a single directory. The default
// directory is ~/.config/authsession; commands accept --config to point
// elsewhere. A missing file is not an error: the defaults are used.
//
// # Keys
//
//	http:
//	  baseUrl: https://api.example.com   # prefixed to relative request paths
//	  headers:                           # static headers, applied first
//	    Accept: application/json
//	  timeout: 30s
//	  retryMax: 0
//	token:
//	  readAs: token        # field in the login response, may be dotted (data.token)
//	  storeAs: token       # storage key
//	  scheme: Bearer       # set to "" to send the raw token
//	authentication:
//	  endpoints:
//	    login: /auth/login
//	    register: /auth/register
//	    check: /auth/user
//	    getUser: /auth/user
//	    forgotPassword: /auth/forgot-password
//	storage:
//	  driver: file         # or memory
//	  dir: ~/.config/authsession/storage
//	log:
//	  level: info
//
// # Lookup
//
// Components read values either through the typed fields or through
// Config.Lookup, which accepts the dotted key and an optional per-call
// override. A truthy override always wins; unknown or unset keys yield nil.
package config
