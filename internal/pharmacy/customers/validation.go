package customers

func (s *Service) validate(form Form) error {
	return s.validator.Struct(form)
}
