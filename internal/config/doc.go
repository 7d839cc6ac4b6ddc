// Package config provides configuration management for the shipping
// pipeline. Settings are loaded from three sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. An optional config.yaml next to the binary
//	3. Built-in defaults
//
// Environment names match the original deployment, unprefixed:
//
//	OUTPUT_ROOT=/data/banner_screenshots
//	PUBLIC_BASE_URL=https://github.com/user/repo/blob/main
//	RAW_BASE_URL=https://raw.githubusercontent.com/user/repo/main
//	SMTP_HOST=smtp.gmail.com
//	SMTP_PORT=587
//	MAIL_TO=a@example.com,b@example.com
//	GIT_REMOTE_NAME=origin
//	GIT_BRANCH=main
//
// Every setting is optional. Missing mail settings skip the email,
// missing link bases degrade hyperlinks, missing git settings fall
// back to origin/main. Load never fails for an absent setting.
package config
