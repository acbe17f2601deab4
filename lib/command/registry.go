// Copyright 2026 The Lockbox Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"sort"
)

// Registry maps command names to commands.
type Registry struct {
	env      *Environment
	commands map[string]*Command
}

// NewRegistry builds a registry with the built-in commands installed.
// The session-control commands (close, quit, exit) only exist in
// interactive mode; a one-shot invocation has no session to control.
func NewRegistry(env *Environment, interactive bool) *Registry {
	registry := &Registry{
		env:      env,
		commands: make(map[string]*Command),
	}
	registry.Register(newOpenCommand())
	registry.Register(newListCommand())
	registry.Register(newShowCommand())
	registry.Register(newSaveCommand())
	registry.Register(newHelpCommand(registry))
	if interactive {
		registry.Register(newCloseCommand())
		registry.Register(newQuitCommand("quit"))
		registry.Register(newQuitCommand("exit"))
	}
	return registry
}

// Register installs a command, replacing any previous command of the
// same name.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Lookup returns the command for name, or nil.
func (r *Registry) Lookup(name string) *Command {
	return r.commands[name]
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	list := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Environment returns the shared command environment.
func (r *Registry) Environment() *Environment {
	return r.env
}
