// Copyright 2026 Praxis Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/praxislab/lectern/ai"

// MockProvider is a test double for ai.Provider bundling the mock services.
type MockProvider struct {
	MockEmbedder  *MockEmbedder
	MockGenerator *MockGenerator
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider with default deterministic mocks.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder:  NewMockEmbedder(),
		MockGenerator: NewMockGenerator(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Generator returns the mock generation service.
func (p *MockProvider) Generator() ai.Generator {
	return p.MockGenerator
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
