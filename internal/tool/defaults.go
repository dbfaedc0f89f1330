package tool

// Default returns a registry populated with the standard lending toolset:
// both service-side built-ins plus webSearch, getRateSheet and createLoanDoc.
// docDir is where createLoanDoc writes generated documents.
func Default(docDir string) (*Registry, error) {
	r := NewRegistry()

	if err := r.RegisterBuiltin(BuiltinCodeInterpreter); err != nil {
		return nil, err
	}
	if err := r.RegisterBuiltin(BuiltinFileSearch); err != nil {
		return nil, err
	}

	for _, fn := range []Func{
		NewWebSearch(),
		NewRateSheet(),
		NewLoanDoc(docDir),
	} {
		if err := r.RegisterFunction(fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}
