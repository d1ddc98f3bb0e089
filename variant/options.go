// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// options.go — functional options for NewTypeList.

package variant

import "github.com/sirupsen/logrus"

// Option configures a TypeList before it is built.
type Option func(*listConfig)

// listConfig holds the resolved TypeList options.
type listConfig struct {
	name   string
	logger logrus.FieldLogger
}

// defaultListConfig: standard logrus logger, generated name.
func defaultListConfig() listConfig {
	return listConfig{logger: logrus.StandardLogger()}
}

// WithLogger routes the list's debug entries (strategy plan, rollbacks,
// transitions to valueless) to l. A nil logger keeps the default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *listConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithListName names the list in log entries and String output.
func WithListName(name string) Option {
	return func(c *listConfig) { c.name = name }
}
