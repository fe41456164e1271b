package todo

import "github.com/roach88/switchboard/internal/message"

// CreateTodo adds a new todo item.
type CreateTodo struct {
	message.Command
	ID    string
	Title string
}

// CompleteTodo marks a todo as done.
type CompleteTodo struct {
	message.Command
	ID string
}

// ListTodos returns all todos plus whatever stats other modules contribute.
type ListTodos struct {
	message.Query
}

// TodoCompleted announces that a todo was completed.
type TodoCompleted struct {
	message.Event
	ID string
}
