package sales

func (s *Service) validate(form Form) error {
	return s.validator.Struct(form)
}
