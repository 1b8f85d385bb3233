package opengl

// ── Lit mesh shader ──────────────────────────────────────────────────────────

const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 mvp;
uniform mat4 model;
uniform mat3 normalMatrix;

out vec4 fragColor;
out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;

void main() {
    vec4 worldPos = model * vec4(inPosition, 1.0);
    fragWorldPos = worldPos.xyz;
    fragNormal   = normalMatrix * inNormal;
    fragUV       = inUV;
    fragColor    = inColor;
    gl_Position  = mvp * vec4(inPosition, 1.0);
}
` + "\x00"

const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;

out vec4 outColor;

uniform vec3  ambientColor;
uniform vec3  cameraPos;

uniform vec3  lightDir;       // direction the light travels
uniform vec3  lightColor;
uniform float lightIntensity;

#define MAX_POINT_LIGHTS 8
uniform int   pointLightCount;
uniform vec3  pointLightPos[MAX_POINT_LIGHTS];
uniform vec3  pointLightColor[MAX_POINT_LIGHTS];
uniform float pointLightIntensity[MAX_POINT_LIGHTS];
uniform float pointLightRange[MAX_POINT_LIGHTS];

uniform vec4  matAlbedo;
uniform vec3  matSpecular;
uniform float matShininess;
uniform vec3  matEmissive;
uniform bool  unlit;

uniform sampler2D albedoTex;
uniform bool      hasTexture;

uniform bool  fogEnabled;
uniform vec3  fogColor;
uniform float fogDensity;

vec3 blinnPhong(vec3 N, vec3 V, vec3 L, vec3 radiance, vec3 albedo) {
    float diff = max(dot(N, L), 0.0);
    vec3  H    = normalize(L + V);
    float sp   = diff > 0.0 ? pow(max(dot(N, H), 0.0), max(matShininess, 1.0)) : 0.0;
    return radiance * (albedo * diff + matSpecular * sp);
}

void main() {
    vec4 base = matAlbedo * fragColor;
    if (hasTexture) {
        base *= texture(albedoTex, fragUV);
    }
    if (base.a < 0.01) {
        discard;
    }

    vec3 color;
    if (unlit) {
        color = base.rgb;
    } else {
        vec3 N = normalize(fragNormal);
        vec3 V = normalize(cameraPos - fragWorldPos);
        if (!gl_FrontFacing) {
            N = -N;
        }

        color = ambientColor * base.rgb;
        color += blinnPhong(N, V, normalize(-lightDir), lightColor * lightIntensity, base.rgb);

        for (int i = 0; i < pointLightCount; i++) {
            vec3  toLight = pointLightPos[i] - fragWorldPos;
            float dist    = length(toLight);
            float falloff = clamp(1.0 - dist / pointLightRange[i], 0.0, 1.0);
            falloff *= falloff;
            vec3 radiance = pointLightColor[i] * pointLightIntensity[i] * falloff;
            color += blinnPhong(N, V, toLight / max(dist, 1e-4), radiance, base.rgb);
        }
        color += matEmissive;
    }

    if (fogEnabled) {
        float d   = length(cameraPos - fragWorldPos) * fogDensity;
        float fog = clamp(exp(-d * d), 0.0, 1.0);
        color = mix(fogColor, color, fog);
    }

    outColor = vec4(color, base.a);
}
` + "\x00"

// ── Screen overlay shader ────────────────────────────────────────────────────

// Pixel-space quad: rect is (x, y, w, h) from the top-left corner.
const overlayVertSrc = `
#version 410 core
layout(location = 0) in vec2 inCorner;

uniform vec4 rect;
uniform vec2 screenSize;

out vec2 fragUV;

void main() {
    vec2 px  = rect.xy + inCorner * rect.zw;
    vec2 ndc = vec2(px.x / screenSize.x * 2.0 - 1.0, 1.0 - px.y / screenSize.y * 2.0);
    fragUV = inCorner;
    gl_Position = vec4(ndc, 0.0, 1.0);
}
` + "\x00"

const overlayFragSrc = `
#version 410 core
in vec2 fragUV;
out vec4 outColor;

uniform sampler2D tex;

void main() {
    outColor = texture(tex, fragUV);
}
` + "\x00"
