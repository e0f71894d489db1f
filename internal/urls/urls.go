package urls

// DefaultAPIBaseURL is the production backend root. Endpoints are appended to it
// verbatim, so it has no trailing slash.
const DefaultAPIBaseURL = "https://us-central1-inkbase01.cloudfunctions.net/api"

// Repository is the project home page.
const Repository = "https://github.com/Cgriz365/inkbridge"

// GettingStarted explains device registration and linking a device to an account.
const GettingStarted = Repository + "#getting-started"

// Troubleshooting lists fixes for registration and connectivity failures.
const Troubleshooting = Repository + "#troubleshooting"
