package ports

//go:generate mockgen -destination=../mocks/ports_mock.go -package=mocks . Transport,Notifier,Navigator,LockPort,EventPublisher
