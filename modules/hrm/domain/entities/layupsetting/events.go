package layupsetting

type UpdatedEvent struct {
	Previous *Setting
	Result   Setting
}
