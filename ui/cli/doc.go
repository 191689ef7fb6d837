// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for mensad using Cobra.
// It wires configuration, default services, and provides commands that
// delegate to the internal packages. CLI code should remain thin and leave
// business logic to internal/fetch, internal/dedupe and friends.
package cli
