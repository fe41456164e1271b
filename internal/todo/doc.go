// Package todo is the example application built on the dispatch runtime.
//
// Three mutually unaware modules compose into one application:
//
//   - todos: owns the todo lifecycle commands and the SQLite store
//   - analytics: counts completions and contributes stats to ListTodos
//   - notifications: reacts to TodoCompleted events
//
// The todos and analytics modules both bind CompleteTodo and ListTodos, so
// executing either fans out across modules and the results compose. The
// modules never import each other; they meet only through messages and the
// shared dependency pool.
package todo
