package ports

type Presenter interface {
	ShowConnectedView()
	ShowDisconnectedView()
	ShowLoading()
	HideLoading()
	PublishStats(deposit, rewards string)
}

type URLOpener interface {
	OpenURL(url string) error
}
