package ports

type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
	NotifyInfo    NotifyKind = "info"
)

type Notifier interface {
	Notify(kind NotifyKind, message string)
}
