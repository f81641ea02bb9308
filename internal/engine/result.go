package engine

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message string `json:"message"`
	Path    Path   `json:"path,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// Result represents the result of executing a GraphQL query
type Result struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}
