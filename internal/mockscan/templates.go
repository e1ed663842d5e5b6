package mockscan

import "github.com/codescanhq/codescan/internal/model"

// template is one fabricated finding. Scores here come from the demo
// lookup table, not from the real pipeline's severity scoring.
type template struct {
	Name           string
	Severity       model.Severity
	Impact         string
	CVSSScore      float64
	Description    string
	Recommendation string
	CodeSnippet    string
	Fix            string
}

// templates keys fabricated findings by file extension. Initialized once,
// never mutated.
var templates = map[string][]template{
	".py": {
		{
			Name:           "Hardcoded Password",
			Severity:       model.SeverityHigh,
			Impact:         "Credentials may be exposed in source code",
			CVSSScore:      7.4,
			Description:    "The application contains hardcoded credentials in source code.",
			Recommendation: "Use environment variables or a secure vault for storing credentials.",
			CodeSnippet:    "password = 'admin123'  # Hardcoded password",
			Fix:            "password = os.environ.get('PASSWORD')",
		},
		{
			Name:           "SQL Injection Vulnerability",
			Severity:       model.SeverityCritical,
			Impact:         "Attackers may execute arbitrary SQL commands",
			CVSSScore:      9.1,
			Description:    "User input is directly concatenated into SQL queries without proper sanitization.",
			Recommendation: "Use parameterized queries or an ORM to prevent SQL injection.",
			CodeSnippet:    "query = f\"SELECT * FROM users WHERE username = '{username}'\"",
			Fix:            "query = \"SELECT * FROM users WHERE username = %s\"\ncursor.execute(query, (username,))",
		},
		{
			Name:           "Insecure Random Number Generation",
			Severity:       model.SeverityMedium,
			Impact:         "Predictable random values may lead to security vulnerabilities",
			CVSSScore:      5.9,
			Description:    "The application uses Python's random module for security-sensitive operations.",
			Recommendation: "Use secrets module for cryptographic operations instead of random.",
			CodeSnippet:    "token = ''.join(random.choice(chars) for _ in range(length))",
			Fix:            "import secrets\ntoken = ''.join(secrets.choice(chars) for _ in range(length))",
		},
	},
	".js": {
		{
			Name:           "Cross-site Scripting (XSS) Vulnerability",
			Severity:       model.SeverityHigh,
			Impact:         "Attackers may inject malicious scripts affecting other users",
			CVSSScore:      7.8,
			Description:    "Unescaped user input in HTML context allows JavaScript injection.",
			Recommendation: "Use output encoding or sanitization libraries (like DOMPurify).",
			CodeSnippet:    "element.innerHTML = userInput;",
			Fix:            "import DOMPurify from 'dompurify';\nelement.innerHTML = DOMPurify.sanitize(userInput);",
		},
		{
			Name:           "Insecure Use of eval()",
			Severity:       model.SeverityCritical,
			Impact:         "Attackers may execute arbitrary code",
			CVSSScore:      9.6,
			Description:    "The application uses eval() with user-controlled input.",
			Recommendation: "Avoid using eval() entirely. Use safer alternatives like JSON.parse() for JSON data.",
			CodeSnippet:    "const result = eval(userInput);",
			Fix:            "const result = JSON.parse(userInput);",
		},
		{
			Name:           "Weak Cryptographic Algorithm",
			Severity:       model.SeverityMedium,
			Impact:         "Encrypted data may be compromised",
			CVSSScore:      5.3,
			Description:    "The application uses MD5 for password hashing, which is cryptographically broken.",
			Recommendation: "Use modern hashing algorithms like bcrypt, scrypt, or Argon2 for password storage.",
			CodeSnippet:    "const hash = crypto.createHash('md5').update(password).digest('hex');",
			Fix:            "const hash = await bcrypt.hash(password, 12);",
		},
	},
	".java": {
		{
			Name:           "Insecure Deserialization",
			Severity:       model.SeverityCritical,
			Impact:         "Remote code execution",
			CVSSScore:      8.8,
			Description:    "The application deserializes untrusted data without proper validation.",
			Recommendation: "Implement integrity checks or use safer alternatives like JSON.",
			CodeSnippet:    "ObjectInputStream in = new ObjectInputStream(inputStream);\nObject obj = in.readObject();",
			Fix:            "ObjectMapper mapper = new ObjectMapper();\nMyObject obj = mapper.readValue(jsonString, MyObject.class);",
		},
		{
			Name:           "Path Traversal Vulnerability",
			Severity:       model.SeverityHigh,
			Impact:         "Unauthorized access to files outside intended directory",
			CVSSScore:      7.5,
			Description:    "User input is used in file paths without proper validation.",
			Recommendation: "Validate and sanitize file paths, use Path.normalize() and check against allowed directories.",
			CodeSnippet:    "File file = new File(basePath + userInput);",
			Fix:            "Path path = Paths.get(basePath, userInput).normalize();\nif (!path.startsWith(Paths.get(basePath))) {\n    throw new SecurityException(\"Path traversal attempt\");\n}",
		},
	},
	".php": {
		{
			Name:           "Remote File Inclusion",
			Severity:       model.SeverityCritical,
			Impact:         "Remote code execution",
			CVSSScore:      9.3,
			Description:    "The application includes files based on user input without proper validation.",
			Recommendation: "Use whitelisting for included files and disable allow_url_include in php.ini.",
			CodeSnippet:    "include($_GET['page'] . '.php');",
			Fix:            "$allowed_pages = ['home', 'about', 'contact'];\nif (in_array($_GET['page'], $allowed_pages)) {\n    include($_GET['page'] . '.php');\n}",
		},
		{
			Name:           "SQL Injection in PHP",
			Severity:       model.SeverityCritical,
			Impact:         "Database compromise",
			CVSSScore:      9.1,
			Description:    "User input is directly inserted into SQL queries.",
			Recommendation: "Use prepared statements with PDO or mysqli_prepare().",
			CodeSnippet:    "$query = \"SELECT * FROM users WHERE username = '$username'\";",
			Fix:            "$stmt = $pdo->prepare(\"SELECT * FROM users WHERE username = ?\");\n$stmt->execute([$username]);",
		},
	},
	".html": {
		{
			Name:           "Cross-site Scripting in HTML",
			Severity:       model.SeverityHigh,
			Impact:         "Session hijacking, defacement",
			CVSSScore:      7.4,
			Description:    "Unescaped data is inserted into HTML without proper encoding.",
			Recommendation: "Use templating engines with automatic escaping or manually escape HTML special characters.",
			CodeSnippet:    "element.innerHTML = getParameterByName('msg');",
			Fix:            "element.innerHTML = escapeHTML(getParameterByName('msg'));",
		},
	},
	".json": {
		{
			Name:           "Sensitive Data Exposure",
			Severity:       model.SeverityHigh,
			Impact:         "Credential leakage",
			CVSSScore:      7.5,
			Description:    "The JSON file contains sensitive information like API keys or passwords.",
			Recommendation: "Store sensitive data in environment variables or secure vaults, not in JSON configuration files.",
			CodeSnippet:    "{\n  \"api_key\": \"api_key_example_12345\"\n}",
			Fix:            "{\n  \"api_key\": \"${API_KEY}\"\n}",
		},
	},
}
