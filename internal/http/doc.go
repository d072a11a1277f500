// Package httpapp provides the HTTP server for SkillSwap.
//
//	@title						SkillSwap API
//	@version					1.0
//	@description				A skill exchange platform: members list skills they offer or want, propose swaps and rate each other.
//	@description				Admins moderate accounts and skills and broadcast announcements. Every admin action is written to an audit log.
//	@description
//	@description				## Authentication Flow
//	@description
//	@description				Members own one or more keys. Authenticate by signing a challenge:
//	@description
//	@description				```
//	@description				┌──────────────────┐     ┌──────────────────┐     ┌──────────────────┐
//	@description				│  1. Challenge    │────▶│  2. Register     │────▶│  3. Get Token    │
//	@description				│  POST /auth/     │     │  POST /accounts  │     │  POST /auth/     │
//	@description				│     challenge    │     │  (first time)    │     │     verify       │
//	@description				└──────────────────┘     └──────────────────┘     └──────────────────┘
//	@description				```
//	@description
//	@description				### Step 1: Get a Challenge
//	@description				```bash
//	@description				curl -X POST /api/auth/challenge -d '{"alg":"ed25519"}'
//	@description				```
//	@description
//	@description				### Step 2: Register (First Time Only)
//	@description				```bash
//	@description				curl -X POST /api/accounts -d '{
//	@description				  "display_name": "ada",
//	@description				  "email": "ada@example.com",
//	@description				  "location": "London",
//	@description				  "public_key": "BASE64_KEY",
//	@description				  "alg": "ed25519",
//	@description				  "challenge": "...",
//	@description				  "signature": "BASE64_SIG"
//	@description				}'
//	@description				```
//	@description
//	@description				### Step 3: Get Bearer Token
//	@description				Sign a fresh challenge and exchange it for an access token.
//	@description				```bash
//	@description				curl -X POST /api/auth/verify -d '{...signed challenge...}'
//	@description				# Returns: {"access_token": "TOKEN", "expires_at": "...", "role": "user"}
//	@description				```
//	@description
//	@description				## Supported Algorithms
//	@description				| Algorithm | Key Format | Notes |
//	@description				|-----------|------------|-------|
//	@description				| ed25519 | base64 | Recommended |
//	@description				| secp256k1 | hex (04 prefix) | Ethereum-compatible |
//	@description				| rsa-pss | PEM | RSA PSS |
//	@description				| rsa-sha256 | PEM | RSA PKCS#1 v1.5 |
//
//	@contact.name				SkillSwap
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from /auth/verify endpoint
//
//	@tag.name					Authentication
//	@tag.description			Challenge-response authentication flow. Get a challenge, sign it, exchange for bearer token.
//
//	@tag.name					Accounts
//	@tag.description			Member profiles. Private profiles are only visible to their owner.
//
//	@tag.name					Skills
//	@tag.description			Skills a member offers or wants to learn.
//
//	@tag.name					Swaps
//	@tag.description			Swap requests between two members. Only the receiver answers a request.
//
//	@tag.name					Ratings
//	@tag.description			One rating per swap per participant, once the swap is accepted or completed.
//
//	@tag.name					Admin
//	@tag.description			Moderation endpoints. Requires a bearer token of an account with the admin role.
package httpapp
