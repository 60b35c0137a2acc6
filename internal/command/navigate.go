package command

import "context"

const CommandNavigate = "navigate"

// NavigateDTO is the payload of a link click or a typed fragment.
type NavigateDTO struct {
	Fragment string `mapstructure:"fragment"`
}

// NavigationHandler routes link clicks through the dispatch table.
type NavigationHandler struct {
	*BaseHandler
}

func NewNavigationHandler(base *BaseHandler) *NavigationHandler {
	return &NavigationHandler{BaseHandler: base}
}

func (h *NavigationHandler) RegisterCommands(d *Dispatcher) {
	d.Handle(CommandNavigate, h.Navigate)
}

// Navigate pushes the fragment; guard redirects and their notifications are the router's.
func (h *NavigationHandler) Navigate(ctx context.Context, p Payload) error {
	var dto NavigateDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}
	h.Navigator.Navigate(ctx, dto.Fragment)
	return nil
}
