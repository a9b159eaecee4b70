package ports

type Navigator interface {
	Navigate(path string)
}
