package i

// Logger is the logging surface used across services.
type Logger interface {
	Debug(string)
	Info(string)
	Warning(string)
	Error(string)
}
