package geometry

// MapRequest is the flat coordinate mapping request record.
type MapRequest struct {
	DeviceX            uint32 `json:"device_x"`
	DeviceY            uint32 `json:"device_y"`
	WindowOriginX      int32  `json:"window_origin_x"`
	WindowOriginY      int32  `json:"window_origin_y"`
	WindowWidth        int32  `json:"window_width"`
	WindowHeight       int32  `json:"window_height"`
	DeviceScreenWidth  uint32 `json:"device_screen_width"`
	DeviceScreenHeight uint32 `json:"device_screen_height"`
	// TitleBarHeight overrides DefaultTitleBarHeight when set.
	TitleBarHeight *int32 `json:"title_bar_height,omitempty"`
}

// MapResponse is the flat coordinate mapping response record.
type MapResponse struct {
	HostX int32 `json:"host_x"`
	HostY int32 `json:"host_y"`
}

// Handle maps a request record.
func Handle(req MapRequest) (MapResponse, error) {
	titleBar := DefaultTitleBarHeight
	if req.TitleBarHeight != nil {
		titleBar = *req.TitleBarHeight
	}

	hp, err := ToHostPixels(
		Point{X: req.DeviceX, Y: req.DeviceY},
		WindowGeometry{X: req.WindowOriginX, Y: req.WindowOriginY, Width: req.WindowWidth, Height: req.WindowHeight},
		DeviceScreen{Width: req.DeviceScreenWidth, Height: req.DeviceScreenHeight},
		titleBar,
	)
	if err != nil {
		return MapResponse{}, err
	}
	return MapResponse{HostX: hp.X, HostY: hp.Y}, nil
}
